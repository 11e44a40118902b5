package metabox

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/pkg/render"
	"github.com/goliatone/go-taxradio/pkg/renderers/vanilla"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
	"github.com/goliatone/go-taxradio/pkg/taxradio"
)

// maxFormBytes bounds POST bodies.
const maxFormBytes = 1 << 20

// HTTPError is an error that carries its response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs an error with an HTTP status code.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode returns Code, or 500 when it is unset.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

// NewHandler is an alias of Handler.
func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. Without a renderer the vanilla HTML renderer is used.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	if opts.Renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			opts.Logger.Error("metabox: default renderer unavailable", zap.Error(err))
		} else {
			opts.Renderer = renderer
		}
	}
	h := &handler{opts: opts}
	return http.HandlerFunc(h.serveHTTP)
}

type handler struct {
	opts Options
}

func (h *handler) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodPost:
		if h.opts.acceptsSubmissions() {
			break
		}
		fallthrough
	default:
		w.Header().Set("Allow", h.allowed())
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}

	widget, ok := h.opts.Widgets[slugFromPath(r.URL.Path)]
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	if r.Method == http.MethodPost {
		h.save(w, r, widget)
		return
	}
	h.render(w, r, widget)
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, widget *taxradio.Widget) {
	item, err := parseItem(r.URL.Query().Get(h.opts.ItemParam))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	renderer := h.opts.Renderer
	if strings.EqualFold(r.URL.Query().Get(h.opts.FormatParam), "json") {
		renderer = render.JSONRenderer{}
	}
	if renderer == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	out, err := widget.RenderFunc(renderer, render.RenderOptions{})(r.Context(), item)
	if err != nil {
		h.writeError(w, widget, err)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(out)
}

func (h *handler) save(w http.ResponseWriter, r *http.Request, widget *taxradio.Widget) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	raw := strings.TrimSpace(r.PostForm.Get(h.opts.ItemParam))
	if raw == "" {
		raw = strings.TrimSpace(r.URL.Query().Get(h.opts.ItemParam))
	}
	if raw == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	item, err := parseItem(raw)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	token := r.PostForm.Get(render.NonceFieldName)
	if !h.opts.Verifier.VerifyNonce(r.Context(), render.NonceAction(widget.Slug()), token) {
		h.opts.Logger.Warn("metabox: nonce rejected",
			zap.String("taxonomy", widget.Slug()),
			zap.Int64("item", int64(item)),
		)
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	if _, err := widget.Save(r.Context(), h.opts.Writer, item, r.PostForm); err != nil {
		h.writeError(w, widget, err)
		return
	}

	renderer := render.JSONRenderer{}
	out, err := widget.RenderFunc(renderer, render.RenderOptions{})(r.Context(), item)
	if err != nil {
		h.writeError(w, widget, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *handler) allowed() string {
	methods := http.MethodGet + ", " + http.MethodHead
	if h.opts.acceptsSubmissions() {
		methods += ", " + http.MethodPost
	}
	return methods
}

func (h *handler) writeError(w http.ResponseWriter, widget *taxradio.Widget, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.StatusCode()
	case taxonomy.IsNotFound(err):
		code = http.StatusNotFound
	case errors.Is(err, taxradio.ErrUnknownTerm), errors.Is(err, taxonomy.ErrInvalidValue):
		code = http.StatusBadRequest
	}
	if code >= http.StatusInternalServerError {
		h.opts.Logger.Error("metabox: request failed",
			zap.String("taxonomy", widget.Slug()),
			zap.Error(err),
		)
	}
	http.Error(w, http.StatusText(code), code)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseItem(raw string) (taxonomy.ItemID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, StatusError{Code: http.StatusBadRequest, Err: err}
	}
	return taxonomy.ItemID(value), nil
}
