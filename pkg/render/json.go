package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-taxradio/pkg/model"
)

// JSONRenderer emits the option list as `{"data": [...]}`, the payload shape
// option endpoints return to client-side pickers.
type JSONRenderer struct{}

type jsonPayload struct {
	Data   []model.Option `json:"data"`
	Field  string         `json:"field"`
	Hidden []HiddenField  `json:"hidden,omitempty"`
}

func (JSONRenderer) Name() string { return "json" }

func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

func (JSONRenderer) Render(_ context.Context, box model.Metabox, options RenderOptions) ([]byte, error) {
	data := box.List.Options
	if data == nil {
		data = []model.Option{}
	}
	payload, err := json.Marshal(jsonPayload{
		Data:   data,
		Field:  box.List.FieldName,
		Hidden: CollectHidden(box.Hidden, options.Hidden),
	})
	if err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return payload, nil
}
