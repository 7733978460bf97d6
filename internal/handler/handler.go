package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"c4dsl/internal/codec"
	"c4dsl/internal/domain"
	"c4dsl/internal/loader"
	"c4dsl/internal/parser"
	"c4dsl/internal/report"
	"c4dsl/internal/resources"
	"c4dsl/internal/service"
	"c4dsl/internal/validation"
)

// WorkspaceHandler handles workspace API requests
type WorkspaceHandler struct {
	svc *service.WorkspaceService
	log *zap.SugaredLogger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(svc *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc, log: zap.S().Named("handler")}
}

// Register adds the API routes to mux
func (h *WorkspaceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/validate", h.Validate)
	mux.HandleFunc("POST /api/format", h.Format)
	mux.HandleFunc("POST /api/analyze", h.Analyze)
	mux.HandleFunc("POST /api/convert", h.Convert)
	mux.HandleFunc("GET /api/runs", h.ListRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.GetRun)
	mux.HandleFunc("GET /api/resources/{name}", h.GetResource)
	mux.HandleFunc("GET /healthz", h.Health)
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error    string           `json:"error"`
	Details  string           `json:"details,omitempty"`
	Location *domain.Location `json:"location,omitempty"`
}

// ContentRequest is the JSON form of a request body
type ContentRequest struct {
	Content string `json:"content" validate:"required"`
}

// ConvertParams are the query parameters of a convert request
type ConvertParams struct {
	From string `validate:"required,oneof=dsl json yaml yml"`
	To   string `validate:"required,oneof=dsl json yaml yml"`
}

// FormatResponse carries formatted source
type FormatResponse struct {
	Formatted string `json:"formatted"`
}

// Validate validates the request source and returns the recorded run
func (h *WorkspaceHandler) Validate(w http.ResponseWriter, r *http.Request) {
	content, ok := h.readContent(w, r)
	if !ok {
		return
	}

	run, err := h.svc.Validate(r.Context(), r.URL.Query().Get("source"), content)
	if err != nil {
		h.writeServiceError(w, "Failed to validate", err)
		return
	}

	if wantsMarkdown(r) {
		h.writeMarkdown(w, report.ValidationMarkdown(run.Result()), http.StatusOK)
		return
	}
	h.writeJSON(w, run, http.StatusOK)
}

// Format returns the canonical rendering of the request source
func (h *WorkspaceHandler) Format(w http.ResponseWriter, r *http.Request) {
	content, ok := h.readContent(w, r)
	if !ok {
		return
	}

	formatted, err := h.svc.Format(r.Context(), content)
	if err != nil {
		if wantsMarkdown(r) && isSyntaxError(err) {
			h.writeMarkdown(w, report.FormatFailedMarkdown(err), http.StatusUnprocessableEntity)
			return
		}
		h.writeServiceError(w, "Cannot format invalid DSL", err)
		return
	}

	if wantsMarkdown(r) {
		h.writeMarkdown(w, report.FormatMarkdown(formatted), http.StatusOK)
		return
	}
	h.writeJSON(w, FormatResponse{Formatted: formatted}, http.StatusOK)
}

// Analyze returns model statistics and suggestions
func (h *WorkspaceHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	content, ok := h.readContent(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Analyze(r.Context(), content)
	if err != nil {
		if wantsMarkdown(r) && isSyntaxError(err) {
			h.writeMarkdown(w, report.AnalysisFailedMarkdown(err), http.StatusUnprocessableEntity)
			return
		}
		h.writeServiceError(w, "Cannot analyze invalid DSL", err)
		return
	}

	if wantsMarkdown(r) {
		h.writeMarkdown(w, report.AnalysisMarkdown(result), http.StatusOK)
		return
	}
	h.writeJSON(w, result, http.StatusOK)
}

// Convert re-encodes the request source in another format
func (h *WorkspaceHandler) Convert(w http.ResponseWriter, r *http.Request) {
	params := ConvertParams{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if params.From == "" {
		params.From = "dsl"
	}
	if err := validation.Struct(&params); err != nil {
		h.writeError(w, "Invalid conversion", err.Error(), http.StatusBadRequest)
		return
	}

	body, err := loader.ReadLimited(r.Body, h.svc.MaxSourceBytes())
	if err != nil {
		h.writeReadError(w, err)
		return
	}

	data, err := h.svc.Convert(r.Context(), string(body), params.From, params.To)
	if err != nil {
		h.writeServiceError(w, "Failed to convert", err)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(params.To))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Warnw("Failed to write response", "error", err)
	}
}

// ListRuns returns recorded validation runs
func (h *WorkspaceHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RunFilter{
		Digest: q.Get("digest"),
		Source: q.Get("source"),
	}

	if v := q.Get("valid"); v != "" {
		valid, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, "Invalid valid parameter", err.Error(), http.StatusBadRequest)
			return
		}
		filter.Valid = &valid
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			h.writeError(w, "Invalid limit parameter", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	runs, err := h.svc.ListRuns(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, "Failed to list runs", err)
		return
	}
	if runs == nil {
		runs = []domain.Run{}
	}
	h.writeJSON(w, runs, http.StatusOK)
}

// GetRun returns a single validation run
func (h *WorkspaceHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, "Invalid run ID", "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "Failed to get run", err)
		return
	}
	h.writeJSON(w, run, http.StatusOK)
}

// GetResource serves the schema and examples documents
func (h *WorkspaceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	res, ok := resources.Lookup("c4://" + r.PathValue("name"))
	if !ok {
		h.writeError(w, "Not found", fmt.Sprintf("unknown resource %q", r.PathValue("name")), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", res.MIMEType+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(res.Text)); err != nil {
		h.log.Warnw("Failed to write response", "error", err)
	}
}

// Health reports liveness
func (h *WorkspaceHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// readContent extracts the DSL source from the request body. On failure the
// error reply has been written and ok is false.
func (h *WorkspaceHandler) readContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	limit := h.svc.MaxSourceBytes()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		// JSON quoting can grow the source, allow some headroom
		body, err := loader.ReadLimited(r.Body, limit*2+1024)
		if err != nil {
			h.writeReadError(w, err)
			return "", false
		}
		var req ContentRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return "", false
		}
		if err := validation.Struct(&req); err != nil {
			h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return "", false
		}
		return req.Content, true
	}

	body, err := loader.ReadLimited(r.Body, limit)
	if err != nil {
		h.writeReadError(w, err)
		return "", false
	}
	if len(body) == 0 {
		h.writeError(w, "Invalid request body", "request body is empty", http.StatusBadRequest)
		return "", false
	}
	return string(body), true
}

func (h *WorkspaceHandler) writeReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, loader.ErrTooLarge) {
		h.writeError(w, "Request body too large", err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
}

// writeServiceError maps service errors to status codes
func (h *WorkspaceHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	var se *parser.SyntaxError
	switch {
	case errors.As(err, &se):
		h.writeJSON(w, ErrorResponse{Error: msg, Details: se.Message, Location: se.Location}, http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrRunNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrHistoryDisabled):
		h.writeError(w, msg, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, loader.ErrTooLarge):
		h.writeError(w, "Request body too large", err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, codec.ErrDecode), errors.Is(err, codec.ErrUnsupportedFormat):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	default:
		h.log.Errorw(msg, "error", err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

func isSyntaxError(err error) bool {
	var se *parser.SyntaxError
	return errors.As(err, &se)
}

func wantsMarkdown(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/markdown")
}

func contentTypeFor(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "yaml", "yml":
		return "application/x-yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Helper methods

func (h *WorkspaceHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warnw("Failed to encode JSON", "error", err)
	}
}

func (h *WorkspaceHandler) writeMarkdown(w http.ResponseWriter, text string, statusCode int) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(text)); err != nil {
		h.log.Warnw("Failed to write markdown", "error", err)
	}
}

func (h *WorkspaceHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	h.writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
