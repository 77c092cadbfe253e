// Package keynote opens and starts presentations in Keynote (or another
// AppleScript-scriptable presentation application) through osascript.
package keynote

import (
	"bytes"
	"context"
	_ "embed"
	"os/exec"
	"strings"
	"text/template"

	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
)

//go:embed start.applescript.tmpl
var startScript string

// DefaultApplication is the presentation application that is scripted when none is configured
const DefaultApplication = "Keynote"

// DefaultOSAScript is the command used to run AppleScript
const DefaultOSAScript = "osascript"

// Runner executes an external command and returns its combined output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Starter runs the "open and start" script against a presentation application.
// Errors inside the application (a missing file, a damaged document) are shown
// as an alert by the script itself and are not reported back.
type Starter struct {
	application string // application is the name of the scriptable presentation app
	osascript   string // osascript is the command used to run the script
	runner      Runner // runner executes the command
	script      string // script is the compiled AppleScript source
}

// Option is a functional option that modifies a Starter
type Option func(*Starter)

// WithApplication sets the name of the presentation application
func WithApplication(application string) Option {
	return func(starter *Starter) {
		if application != "" {
			starter.application = application
		}
	}
}

// WithOSAScript sets the command used to run AppleScript
func WithOSAScript(osascript string) Option {
	return func(starter *Starter) {
		if osascript != "" {
			starter.osascript = osascript
		}
	}
}

// WithRunner replaces the function that executes commands
func WithRunner(runner Runner) Option {
	return func(starter *Starter) {
		if runner != nil {
			starter.runner = runner
		}
	}
}

// New returns a fully initialized Starter, with the script rendered for the configured application
func New(options ...Option) (Starter, error) {

	const location = "keynote.New"

	result := Starter{
		application: DefaultApplication,
		osascript:   DefaultOSAScript,
		runner:      execRunner,
	}

	for _, option := range options {
		option(&result)
	}

	// The application name is embedded in an AppleScript string literal
	if strings.ContainsAny(result.application, "\"\\\n") {
		return Starter{}, derp.InternalError(location, "Invalid application name", result.application)
	}

	script, err := renderScript(result.application)

	if err != nil {
		return Starter{}, derp.Wrap(err, location, "Unable to render script", result.application)
	}

	result.script = script
	return result, nil
}

// Start opens the file at `path` in the presentation application and starts
// it.  The path is passed as the script's only argument.
func (starter Starter) Start(ctx context.Context, path string) error {

	const location = "keynote.Starter.Start"

	output, err := starter.runner(ctx, starter.osascript, "-e", starter.script, path)

	log.Debug().
		Str("location", location).
		Str("application", starter.application).
		Str("path", path).
		Bytes("output", bytes.TrimSpace(output)).
		Msg("Ran start script")

	if err != nil {
		return derp.Wrap(err, location, "Unable to run start script", starter.application, path, string(output))
	}

	return nil
}

// renderScript fills the application name into the start script
func renderScript(application string) (string, error) {

	tmpl, err := template.New("start").Parse(startScript)

	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer

	if err := tmpl.Execute(&buffer, map[string]string{"Application": application}); err != nil {
		return "", err
	}

	return buffer.String(), nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
