package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/remote"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// FormRequest is the body of POST /validate. Fields may be omitted when the
// server was given a form definition.
type FormRequest struct {
	Fields   map[string]string `json:"fields,omitempty"`
	Values   map[string]string `json:"values"`
	Messages map[string]string `json:"messages,omitempty"`
}

// FormReply is the data of a POST /validate reply.
type FormReply struct {
	Valid   bool                                  `json:"valid"`
	Results map[string]validator.ValidationResult `json:"results,omitempty"`
}

// FieldReply is the data of a POST /validate/{field} reply.
type FieldReply struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Handler serves validation over HTTP. Every request gets a fresh form, so
// requests never share field state.
type Handler struct {
	def      validator.Definition
	registry *validator.Registry
	log      *slog.Logger
	timeout  time.Duration
	maxBody  int64
	checks   []func(context.Context) error
	formOpts []validator.Option
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDefinition sets the form served by POST /validate/{field} and used by
// POST /validate when a request declares no fields.
func WithDefinition(d validator.Definition) HandlerOption {
	return func(h *Handler) { h.def = d }
}

// WithRegistry sets the registry forms resolve rules and messages through.
func WithRegistry(r *validator.Registry) HandlerOption {
	return func(h *Handler) {
		if r != nil {
			h.registry = r
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithValidateTimeout bounds the wait for asynchronous rules.
func WithValidateTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithMaxBodyBytes limits request bodies.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithHealthChecks adds readiness checks to GET /healthz.
func WithHealthChecks(checks ...func(context.Context) error) HandlerOption {
	return func(h *Handler) { h.checks = append(h.checks, checks...) }
}

// WithFormOptions adds options to every form the handler builds, for example
// validator.WithCatalog.
func WithFormOptions(opts ...validator.Option) HandlerOption {
	return func(h *Handler) { h.formOpts = append(h.formOpts, opts...) }
}

// WithConfig applies the request limits of cfg.
func WithConfig(cfg Config) HandlerOption {
	return func(h *Handler) {
		WithValidateTimeout(cfg.ValidateTimeout)(h)
		WithMaxBodyBytes(cfg.MaxBodyBytes)(h)
	}
}

// NewHandler returns a Handler.
func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{
		registry: validator.Global(),
		log:      logger.Discard(),
		timeout:  10 * time.Second,
		maxBody:  1 << 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("httpapi"))
	return h
}

// Routes returns the router:
//
//	POST /validate          validate a whole form
//	POST /validate/{field}  validate one field of the served form
//	GET  /healthz           liveness or readiness probe
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/validate", h.validateForm)
	r.Post("/validate/{field}", h.validateField)
	r.Get("/healthz", HealthCheckHandler(h.log, h.checks...))
	return r
}

func (h *Handler) validateForm(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	opts := []validator.Option{}
	switch {
	case len(req.Fields) > 0:
		opts = append(opts, validator.WithFields(req.Fields))
	case len(h.def.Fields) > 0:
		opts = append(opts, h.def.Options()...)
	default:
		h.fail(w, r, ErrNoFields)
		return
	}
	if len(req.Messages) > 0 {
		opts = append(opts, validator.WithMessages(req.Messages))
	}

	form := h.newForm(r, req.Values, opts...)
	defer form.Close()

	err := h.wait(r.Context(), form, nil)
	if err != nil && !validator.IsValidationError(err) {
		h.fail(w, r, err)
		return
	}

	reply := FormReply{Valid: err == nil, Results: make(map[string]validator.ValidationResult)}
	for _, key := range form.Fields() {
		if res, ok := form.Result(key); ok {
			reply.Results[key] = res
		}
	}
	h.log.DebugContext(r.Context(), "form validated", logger.FormID(form.ID()), logger.Valid(reply.Valid))

	if reply.Valid {
		_ = writeJSON(w, http.StatusOK, JSONResponse{Data: reply})
		return
	}
	_ = writeJSON(w, http.StatusUnprocessableEntity, JSONResponse{
		Data:  reply,
		Error: validationDetail(validator.ExtractValidationErrors(err)),
	})
}

func (h *Handler) validateField(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "field")
	spec, ok := h.def.Fields.Lookup(key)
	if !ok {
		h.fail(w, r, fmt.Errorf("%w: %q", ErrUnknownField, key))
		return
	}

	var req remote.CheckRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	values := make(map[string]string, len(req.Values)+1)
	for k, v := range req.Values {
		values[k] = v
	}
	values[key] = req.Value

	opts := []validator.Option{validator.WithField(key, spec)}
	if len(h.def.Messages) > 0 {
		opts = append(opts, validator.WithMessages(h.def.Messages))
	}
	form := h.newForm(r, values, opts...)
	defer form.Close()

	err := h.wait(r.Context(), form, []string{key})
	if err != nil && !validator.IsValidationError(err) {
		h.fail(w, r, err)
		return
	}

	res, _ := form.Result(key)
	h.log.DebugContext(r.Context(), "field validated", logger.Field(key), logger.Rule(res.Rule), logger.Valid(res.Valid))

	if err == nil {
		_ = writeJSON(w, http.StatusOK, JSONResponse{Data: FieldReply{Valid: true, Message: res.Message}})
		return
	}

	detail := validationDetail(validator.ExtractValidationErrors(err))
	if msgs := detail.Details[key]; len(msgs) > 0 {
		detail.Message = msgs[0]
		// The client reads details under its own field key.
		if req.Field != "" && req.Field != key {
			detail.Details[req.Field] = msgs
		}
	}
	_ = writeJSON(w, http.StatusUnprocessableEntity, JSONResponse{
		Data:  FieldReply{Valid: false, Message: detail.Message},
		Error: detail,
	})
}

func (h *Handler) newForm(r *http.Request, values map[string]string, opts ...validator.Option) *validator.Form {
	base := []validator.Option{
		validator.WithRegistry(h.registry),
		validator.WithInputs(validator.Values(values)),
		validator.WithTimely(validator.TimelyOff),
		validator.WithLogger(h.log.With(logger.RequestID(RequestIDFromContext(r.Context())))),
	}
	base = append(base, h.formOpts...)
	return validator.New(append(base, opts...)...)
}

func (h *Handler) wait(ctx context.Context, form *validator.Form, keys []string) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return form.Validate(ctx, keys...).Wait(ctx)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := errorStatus(err)
	if errors.Is(err, context.DeadlineExceeded) {
		status, detail = http.StatusGatewayTimeout, &ErrorDetail{Code: "timeout", Message: "validation did not settle in time"}
	}
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "validation request failed", logger.Error(err))
	}
	_ = writeJSON(w, status, JSONResponse{Error: detail})
}

func validationDetail(errs validator.ValidationErrors) *ErrorDetail {
	detail := &ErrorDetail{
		Code:    "validation_error",
		Message: "validation failed",
		Details: make(map[string][]string),
	}
	for _, key := range errs.Fields() {
		detail.Details[key] = errs.Get(key)
	}
	return detail
}
