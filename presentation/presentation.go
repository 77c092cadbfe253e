// Package presentation decodes "start presentation" notifications and turns
// them into calls against a presentation application.
package presentation

import (
	"context"
	"path/filepath"
)

// Presentation names a single presentation file
type Presentation struct {
	Name     string `json:"name,omitempty"` // Human-readable name of the presentation
	Filename string `json:"filename"`       // File name, relative to the presentation directory
}

// Notification is the inner payload of a "start presentation" message.  Only
// Presentation.Filename is required; the other fields describe how the
// presentation was matched by the publisher.
type Notification struct {
	SpokenName   string        `json:"spokenName,omitempty"`
	Confidence   float64       `json:"confidence,omitempty"`
	Presentation *Presentation `json:"presentation"`
}

// Starter opens and starts a presentation file in a presentation application
type Starter interface {
	Start(ctx context.Context, path string) error
}

// StarterFunc adapts an ordinary function into a Starter
type StarterFunc func(ctx context.Context, path string) error

// Start implements the Starter interface
func (f StarterFunc) Start(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Resolve joins a filename onto the presentation directory.  The file is not
// checked for existence.
func Resolve(baseDir string, filename string) string {
	return filepath.Join(baseDir, filename)
}
