// Package tui picks a term from a metabox option list in the terminal and
// serializes the choice the way the edit form would submit it.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-taxradio/pkg/model"
	"github.com/goliatone/go-taxradio/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	pageSize     int
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Pick prompts for one option of list. The currently checked option is the
// default; an invalid answer is reported and asked again.
func (r *Renderer) Pick(ctx context.Context, title string, list model.OptionList) (model.Option, error) {
	if ctx == nil {
		return model.Option{}, errors.New("tui: context is required")
	}
	if r.driver == nil {
		return model.Option{}, errors.New("tui: prompt driver is nil")
	}
	if len(list.Options) == 0 {
		return model.Option{}, ErrNoOptions
	}

	labels := make([]string, len(list.Options))
	defaultIdx := 0
	for i, opt := range list.Options {
		labels[i] = optionLabel(opt)
		if opt.Checked {
			defaultIdx = i
		}
	}

	message := strings.TrimSpace(r.theme.PromptPrefix + title)
	for {
		if err := ctx.Err(); err != nil {
			return model.Option{}, err
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         list.FieldName,
			PageSize:     r.pageSize,
		})
		if err != nil {
			return model.Option{}, err
		}
		if idx >= 0 && idx < len(list.Options) {
			return list.Options[idx], nil
		}
		_ = r.driver.Info(ctx, r.theme.InfoPrefix+fmt.Sprintf("Invalid %s selection", title))
	}
}

// Render prompts for a term and returns the submission for the picked
// option, including the metabox's hidden fields.
func (r *Renderer) Render(ctx context.Context, box model.Metabox, opts render.RenderOptions) ([]byte, error) {
	picked, err := r.Pick(ctx, box.Title, box.List)
	if err != nil {
		return nil, err
	}
	return r.Encode(box, picked, opts)
}

// Encode serializes picked as a submission of box in the configured output
// format.
func (r *Renderer) Encode(box model.Metabox, picked model.Option, opts render.RenderOptions) ([]byte, error) {
	hidden := render.CollectHidden(box.Hidden, opts.Hidden)

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, field := range hidden {
			values.Set(field.Name, field.Value)
		}
		values.Set(box.List.FieldName, picked.FormValue)
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(fmt.Sprintf("%s: %s\n", box.Title, optionLabel(picked))), nil
	default:
		payload := struct {
			Field  string               `json:"field"`
			Value  string               `json:"value"`
			Label  string               `json:"label"`
			TermID int64                `json:"term_id"`
			Hidden []render.HiddenField `json:"hidden,omitempty"`
		}{
			Field:  box.List.FieldName,
			Value:  picked.FormValue,
			Label:  picked.Label,
			TermID: picked.TermID,
			Hidden: hidden,
		}
		out, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("tui: encode selection: %w", err)
		}
		return out, nil
	}
}

func optionLabel(opt model.Option) string {
	label := strings.TrimSpace(opt.Label)
	if label == "" {
		label = opt.FormValue
	}
	return label
}
