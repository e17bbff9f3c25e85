// Package assets bundles the static files shipped with the bot.
package assets

import _ "embed"

// GrassName is the file name the built-in icon is attached under.
const GrassName = "grass.png"

// Grass is the default image attached to every reply.
//
//go:embed grass.png
var Grass []byte
