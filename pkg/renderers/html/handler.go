package html

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/render"
	"github.com/goliatone/go-formstudio/pkg/runtime"
	"github.com/goliatone/go-formstudio/pkg/schema"
)

// DefaultMaxMemory bounds the in-memory part of multipart parsing.
const DefaultMaxMemory = 8 << 20

// SubmittedNotice is shown after a successful submission redirect.
const SubmittedNotice = "Thanks, your response was recorded."

const submittedParam = "submitted"

// StoreFunc returns the schema to serve. It is called on every request so a
// reloaded document takes effect without restarting.
type StoreFunc func() *schema.Store

// HiddenFunc returns per-request hidden inputs such as CSRF tokens.
type HiddenFunc func(*http.Request) []render.HiddenField

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithValidator rejects submissions the validator refuses. Rejected
// submissions re-render with field errors and status 422.
func WithValidator(validator runtime.Validator) HandlerOption {
	return func(h *Handler) {
		h.validator = validator
	}
}

// WithSink receives every accepted submission.
func WithSink(sink runtime.Sink) HandlerOption {
	return func(h *Handler) {
		h.sink = sink
	}
}

// WithHidden adds per-request hidden inputs.
func WithHidden(fn HiddenFunc) HandlerOption {
	return func(h *Handler) {
		h.hidden = fn
	}
}

// WithMaxMemory overrides DefaultMaxMemory.
func WithMaxMemory(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxMemory = n
		}
	}
}

// WithHandlerLogger sets the logger used for request diagnostics.
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler serves a form over HTTP. GET renders it; POST replays the posted
// values into a fresh runtime, submits, and either redirects back with a
// notice or re-renders with the validation issues.
type Handler struct {
	renderer  *Renderer
	store     StoreFunc
	validator runtime.Validator
	sink      runtime.Sink
	hidden    HiddenFunc
	maxMemory int64
	logger    *slog.Logger
}

// NewHandler builds a Handler rendering with renderer.
func NewHandler(renderer *Renderer, store StoreFunc, options ...HandlerOption) *Handler {
	h := &Handler{
		renderer:  renderer,
		store:     store,
		maxMemory: DefaultMaxMemory,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// StaticStore adapts a fixed store to a StoreFunc.
func StaticStore(store *schema.Store) StoreFunc {
	return func() *schema.Store { return store }
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	store := h.store()
	if store == nil {
		http.Error(w, "form unavailable", http.StatusServiceUnavailable)
		return
	}
	form := render.FormFromStore(store)

	switch req.Method {
	case http.MethodGet, http.MethodHead:
		notice := ""
		if req.URL.Query().Get(submittedParam) != "" {
			notice = SubmittedNotice
		}
		h.write(w, req, http.StatusOK, form, render.RenderOptions{}, notice)
	case http.MethodPost:
		h.submit(w, req, form)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) submit(w http.ResponseWriter, req *http.Request, form render.Form) {
	if err := h.parse(req); err != nil {
		h.logger.Warn("html: parse submission", "error", err)
		http.Error(w, "malformed form submission", http.StatusBadRequest)
		return
	}

	rtOpts := []runtime.Option{runtime.WithLogger(h.logger)}
	if h.validator != nil {
		rtOpts = append(rtOpts, runtime.WithValidator(h.validator))
	}
	if h.sink != nil {
		rtOpts = append(rtOpts, runtime.WithSink(h.sink))
	}
	rt := runtime.New(rtOpts...)
	rt.Initialize(form.Fields)
	Replay(req, form.Fields, rt)

	values, err := rt.Submit()
	if err != nil {
		var verr *runtime.ValidationError
		if !errors.As(err, &verr) {
			h.logger.Error("html: submit", "error", err)
			http.Error(w, "submission failed", http.StatusInternalServerError)
			return
		}
		h.write(w, req, http.StatusUnprocessableEntity, form, render.RenderOptions{
			Values: values,
			Errors: verr.FieldErrors(),
		}, "")
		return
	}

	target := *req.URL
	query := target.Query()
	query.Set(submittedParam, "1")
	target.RawQuery = query.Encode()
	http.Redirect(w, req, target.String(), http.StatusSeeOther)
}

func (h *Handler) parse(req *http.Request) error {
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		return req.ParseMultipartForm(h.maxMemory)
	}
	return req.ParseForm()
}

// Replay copies a parsed request into rec. Checkbox values only toggle known
// options, and switches read the last posted value so the hidden "false"
// input is overridden by a checked box. Fields absent from the request keep
// their current value.
func Replay(req *http.Request, fields []model.Field, rec render.Recorder) {
	for _, field := range fields {
		name := string(field.ID)
		posted, present := req.PostForm[name]

		switch field.Type {
		case model.FieldTypeCheckbox:
			options, _ := field.Options()
			for _, value := range posted {
				if slices.Contains(options, value) {
					rec.ToggleOption(field.ID, value, true)
				}
			}
		case model.FieldTypeSwitch:
			if present && len(posted) > 0 {
				last := posted[len(posted)-1]
				rec.SetValue(field.ID, model.Bool(last == "true" || last == "on"))
			}
		case model.FieldTypeFile:
			if req.MultipartForm == nil {
				continue
			}
			files := model.Files{}
			for _, header := range req.MultipartForm.File[name] {
				files = append(files, model.FileRef{
					Name:        header.Filename,
					Size:        header.Size,
					ContentType: header.Header.Get("Content-Type"),
				})
			}
			rec.SetValue(field.ID, files)
		default:
			if present && len(posted) > 0 {
				rec.SetValue(field.ID, model.Text(posted[0]))
			}
		}
	}
}

func (h *Handler) write(w http.ResponseWriter, req *http.Request, status int, form render.Form, options render.RenderOptions, notice string) {
	options.Action = req.URL.Path
	options.Method = http.MethodPost
	if h.hidden != nil {
		options.Hidden = h.hidden(req)
	}

	body, err := h.renderer.render(form, options, notice)
	if err != nil {
		h.logger.Error("html: render", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	if req.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
