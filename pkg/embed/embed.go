// Package embed builds platform independent reply envelopes.
// Gateways translate an Envelope into their library's embed type.
package embed

import (
	"fmt"
	"strings"
	"time"
)

// Intent represents the semantic category of a reply.
type Intent uint

// Reply intents.
const (
	IntentInfo Intent = iota
	IntentSuccess
	IntentWarning
	IntentError
)

// Intent colors.
const (
	ColorInfo    = 0x209fd5
	ColorSuccess = 0x8eef43
	ColorWarning = 0xff8d1e
	ColorError   = 0xfb4b4e
)

// Color returns the color for the intent.
func (i Intent) Color() int {
	switch i {
	case IntentError:
		return ColorError
	case IntentWarning:
		return ColorWarning
	case IntentSuccess:
		return ColorSuccess
	default:
		return ColorInfo
	}
}

// Field is a titled block of text inside an envelope.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Author is shown above the envelope title.
type Author struct {
	Name    string
	URL     string
	IconURL string
}

// Attachment is a file uploaded with the reply.
type Attachment struct {
	Name string
	Data []byte
}

// Button is an interactive component attached to the reply.
type Button struct {
	ID    string
	Label string
}

// Envelope is the formatted reply shown to the user.
type Envelope struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Footer      string
	Author      *Author
	Timestamp   time.Time
	Attachment  *Attachment
	Button      *Button
}

// Options control the defaults applied by Formatter.New.
type Options struct {
	Intent      Intent
	NoColor     bool
	NoAuthor    bool
	NoTimestamp bool
}

// Formatter applies the bot's branding to envelopes.
type Formatter struct {
	// Address is shown as the author of every envelope.
	Address string

	// Website is the author link.
	Website string

	// Icon is attached to every envelope and used as the author icon.
	Icon *Attachment

	// Now defaults to time.Now.
	Now func() time.Time
}

// New completes e with the formatter's branding.
// An explicit color or author on e is never overridden.
func (f *Formatter) New(e Envelope, opts Options) *Envelope {
	if e.Author == nil && !opts.NoAuthor {
		e.Author = &Author{
			Name: f.Address,
			URL:  f.Website,
		}
		if f.Icon != nil {
			e.Author.IconURL = "attachment://" + f.Icon.Name
		}
	}

	if e.Attachment == nil && f.Icon != nil {
		e.Attachment = f.Icon
	}

	if !opts.NoTimestamp && e.Timestamp.IsZero() {
		e.Timestamp = f.now()
	}

	if e.Color == 0 && !opts.NoColor {
		e.Color = opts.Intent.Color()
	}

	return &e
}

// Info builds an informational envelope.
func (f *Formatter) Info(message string, description ...string) *Envelope {
	return f.intent(IntentInfo, message, description)
}

// Success builds a success envelope.
func (f *Formatter) Success(message string, description ...string) *Envelope {
	return f.intent(IntentSuccess, message, description)
}

// Warning builds a warning envelope.
func (f *Formatter) Warning(message string, description ...string) *Envelope {
	return f.intent(IntentWarning, message, description)
}

// Error builds an error envelope.
func (f *Formatter) Error(message string, description ...string) *Envelope {
	return f.intent(IntentError, message, description)
}

// Unhandled builds the error envelope for an answer the bot does not understand.
// dump is shown verbatim in a code block.
func (f *Formatter) Unhandled(status int, dump string) *Envelope {
	return f.Error(fmt.Sprintf("Unhandled %d!", status), "```json\n"+dump+"\n```")
}

func (f *Formatter) intent(i Intent, message string, description []string) *Envelope {
	return f.New(Envelope{Description: intentText(message, description)}, Options{Intent: i})
}

func (f *Formatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func intentText(message string, description []string) string {
	desc := strings.Join(description, "\n")
	if desc == "" {
		return message
	}
	return message + "\n" + desc
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, `_`, `\_`)

// EscapeMarkdown escapes backslashes and underscores so names render literally.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
