package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/pcoview/pkg/buildinfo"
	"github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/layout"
	"github.com/matzehuels/pcoview/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatNodelink: "image/svg+xml",
}

type errorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.requestOptions(w, r)
	if !ok {
		return
	}
	format := pipeline.FormatSVG
	if len(opts.Formats) > 0 {
		format = opts.Formats[0]
	}
	if f := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))); f != "" {
		format = f
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Cache", cacheHeader(result.CacheInfo.RenderHit))
	h.Set("X-Points", strconv.Itoa(result.Stats.Points))
	h.Set("X-Visible", strconv.Itoa(result.Stats.Visible))
	h.Set("X-Hidden", strconv.Itoa(result.Stats.Hidden))
	h.Set("X-Edges", strconv.Itoa(result.Stats.Edges))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.requestOptions(w, r)
	if !ok {
		return
	}
	ins, err := s.runner.Inspect(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(ins.CacheHit))
	s.writeJSON(w, http.StatusOK, ins)
}

// requestOptions reads the body and applies query parameters on top of the
// server defaults. It writes the error response itself and reports false on
// failure.
func (s *Server) requestOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	opts := s.defaults
	opts.Hidden = slices.Clone(s.defaults.Hidden)
	opts.Formats = slices.Clone(s.defaults.Formats)
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeErrorStatus(w, r, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput,
				"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return opts, false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return opts, false
	}
	opts.Input = body

	if err := applyQuery(&opts, r); err != nil {
		s.writeError(w, r, err)
		return opts, false
	}
	return opts, true
}

func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()

	opts.Source = q.Get("source")
	if opts.Source == "" {
		opts.Source = "request.pco"
	}
	for _, f := range []struct {
		name string
		dst  *float64
		code errors.Code
	}{
		{"width", &opts.Width, errors.ErrCodeInvalidViewport},
		{"height", &opts.Height, errors.ErrCodeInvalidViewport},
		{"scale", &opts.Scale, errors.ErrCodeInvalidConfig},
	} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(f.code, "invalid %s: %q", f.name, v)
		}
		*f.dst = n
	}
	if v := q.Get("policy"); v != "" {
		p, err := graph.ParsePolicy(v)
		if err != nil {
			return err
		}
		opts.Policy = p
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid detailed: %q", v)
		}
		opts.Detailed = b
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("page"); v != "" {
		opts.Page = v
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	opts.Refresh = q.Has("refresh")
	return nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) (int, errors.Code) {
	if stderrors.Is(err, layout.ErrNoLayout) {
		return http.StatusUnprocessableEntity, errors.ErrCodeNoLayout
	}
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidPolicy, errors.ErrCodeInvalidViewport, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest, code
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound, code
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented, code
	}
	return http.StatusInternalServerError, errors.ErrCodeInternal
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		msg = "internal error"
	}
	s.writeErrorStatus(w, r, status, code, msg)
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, code errors.Code, msg string) {
	s.writeJSON(w, status, errorBody{Code: code, Message: msg, RequestID: RequestID(r.Context())})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}
