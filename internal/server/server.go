package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	language "github.com/hanpama/graphlint/internal/language"
	reqid "github.com/hanpama/graphlint/internal/reqid"
	schema "github.com/hanpama/graphlint/internal/schema"
	validation "github.com/hanpama/graphlint/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Handler is an http.Handler that lints GraphQL query documents against a
// fixed schema. It parses requests, runs validation, and reports findings as
// JSON; it never executes anything.
type Handler struct {
	schema *schema.Schema
	tracer trace.Tracer
	opt    Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

// New creates a lint handler for the given schema.
func New(s *schema.Schema, opts ...Option) (*Handler, error) {
	op := Options{Timeout: 10 * time.Second}
	for _, f := range opts {
		f(&op)
	}
	return &Handler{schema: s, tracer: otel.Tracer("graphlint"), opt: op}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	ctx, rid := reqid.NewContext(ctx)
	ctx, span := h.tracer.Start(ctx, "http.request")
	span.SetAttributes(
		semconv.HTTPMethodKey.String(r.Method),
		attribute.String("http.target", r.URL.Path),
		attribute.String("lint.request_id", strconv.FormatInt(rid, 10)),
	)
	status := http.StatusOK
	defer func() {
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
		span.End()
	}()

	if r.Method == http.MethodOptions {
		if len(h.opt.CORS.AllowedOrigins) > 0 {
			setCORSHeaders(w, r, h.opt.CORS)
		}
		status = http.StatusNoContent
		w.WriteHeader(status)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		status = http.StatusMethodNotAllowed
		writeJSON(w, status, badRequestResult("method not allowed"), h.opt.Pretty)
		return
	}

	req, batch, berr := parseRequest(r, h.opt.MaxBodyBytes)
	if berr != "" {
		status = http.StatusBadRequest
		if berr == errBodyTooLargeMessage {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, badRequestResult(berr), h.opt.Pretty)
		return
	}

	if len(h.opt.CORS.AllowedOrigins) > 0 {
		setCORSHeaders(w, r, h.opt.CORS)
	}

	if batch != nil {
		out := make([]LintResult, len(batch))
		for i := range batch {
			out[i] = h.lintOne(ctx, batch[i])
		}
		writeJSON(w, status, out, h.opt.Pretty)
		return
	}

	writeJSON(w, status, h.lintOne(ctx, req), h.opt.Pretty)
}

func (h *Handler) lintOne(ctx context.Context, req LintRequest) LintResult {
	_, span := h.tracer.Start(ctx, "graphql.validate")
	span.SetAttributes(attribute.String("graphql.operation.name", req.OperationName))
	defer span.End()

	doc, err := language.ParseQuery(req.Query)
	if err != nil {
		res := syntaxErrorResult(err)
		span.SetAttributes(attribute.Int("graphql.error_count", len(res.Errors)))
		return res
	}

	errs := validation.Validate(h.schema, doc)
	span.SetAttributes(attribute.Int("graphql.error_count", len(errs)))

	res := LintResult{Valid: len(errs) == 0}
	for _, e := range errs {
		le := LintError{Message: e.Message}
		if e.Line > 0 {
			le.Locations = []LintLocation{{Line: e.Line, Column: e.Column}}
		}
		res.Errors = append(res.Errors, le)
	}
	return res
}

// ------------------ Request parsing ------------------

type LintRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName,omitempty"`
}

func parseRequest(r *http.Request, maxBody int64) (LintRequest, []LintRequest, string) {
	if r.Method == http.MethodGet {
		q := r.URL.Query().Get("query")
		if q == "" {
			return LintRequest{}, nil, "missing 'query'"
		}
		op := r.URL.Query().Get("operationName")
		return LintRequest{Query: q, OperationName: op}, nil, ""
	}

	// POST
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && !strings.HasPrefix(ct, "application/json;") {
		return LintRequest{}, nil, "unsupported Content-Type"
	}
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return LintRequest{}, nil, "failed to read body"
	}
	defer r.Body.Close()
	if maxBody > 0 && int64(len(body)) > maxBody {
		return LintRequest{}, nil, errBodyTooLargeMessage
	}

	// Try array (batch)
	if len(body) > 0 && body[0] == '[' {
		var arr []LintRequest
		if err := json.Unmarshal(body, &arr); err != nil {
			return LintRequest{}, nil, "invalid JSON"
		}
		if len(arr) == 0 {
			return LintRequest{}, nil, "empty batch"
		}
		return LintRequest{}, arr, ""
	}
	// Single
	var req LintRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return LintRequest{}, nil, "invalid JSON"
	}
	if req.Query == "" {
		return LintRequest{}, nil, "missing 'query'"
	}
	return req, nil, ""
}

// ------------------ Response formatting ------------------

type LintLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type LintError struct {
	Message   string         `json:"message"`
	Locations []LintLocation `json:"locations,omitempty"`
}

type LintResult struct {
	Valid  bool        `json:"valid"`
	Errors []LintError `json:"errors,omitempty"`
}

func badRequestResult(message string) LintResult {
	return LintResult{Valid: false, Errors: []LintError{{Message: message}}}
}

func syntaxErrorResult(err error) LintResult {
	le := LintError{Message: err.Error()}
	if ge, ok := language.AsError(err); ok {
		le.Message = ge.Message
		for _, loc := range ge.Locations {
			le.Locations = append(le.Locations, LintLocation{Line: loc.Line, Column: loc.Column})
		}
	}
	return LintResult{Valid: false, Errors: []LintError{le}}
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

const errBodyTooLargeMessage = "body too large"

func setCORSHeaders(w http.ResponseWriter, r *http.Request, opts CORSOptions) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	allowed := false
	wildcard := false
	for _, o := range opts.AllowedOrigins {
		if o == "*" {
			wildcard = true
		}
		if o == "*" || o == origin {
			allowed = true
		}
	}
	if !allowed {
		return
	}
	if wildcard {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	if r.Method == http.MethodOptions {
		if hdr := r.Header.Get("Access-Control-Request-Headers"); hdr != "" {
			w.Header().Set("Access-Control-Allow-Headers", hdr)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	}
}
