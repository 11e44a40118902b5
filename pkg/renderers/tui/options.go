package tui

import (
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// OutputFormat controls how the picked value is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits {"field": ..., "value": ...} plus hidden fields.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits the request body a browser would post.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional formatting hints applied to prompts and messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithStdio points the survey driver at explicit streams. It has no effect
// when a custom driver is installed.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) Option {
	return func(r *Renderer) {
		if driver, ok := r.driver.(*surveyDriver); ok {
			driver.out = out
			driver.stdio = []survey.AskOpt{survey.WithStdio(in, out, errOut)}
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithPageSize limits how many options the prompt shows at once.
func WithPageSize(size int) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.pageSize = size
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
