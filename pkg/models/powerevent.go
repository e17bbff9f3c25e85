package models

import (
	"github.com/jinzhu/gorm"
)

// PowerEvent represents a power signal sent on a user's behalf.
type PowerEvent struct {
	gorm.Model
	ServerID  string
	Signal    string
	UserID    string
	Succeeded bool
	Error     string
}

// TableName name of the table for power events.
func (PowerEvent) TableName() string {
	return "power_events"
}
