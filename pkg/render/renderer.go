package render

import (
	"context"

	"github.com/goliatone/go-taxradio/pkg/model"
)

// Renderer converts a metabox view model into a byte representation (HTML,
// JSON, terminal output).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, box model.Metabox, options RenderOptions) ([]byte, error)
}
