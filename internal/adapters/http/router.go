package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ndmitriev/docqa/internal/core/ports"
	"github.com/ndmitriev/docqa/internal/observability/metrics"
)

type Router struct {
	ingestUC    ports.DocumentIngestor
	queryUC     ports.QueryService
	repo        ports.DocumentReader
	metrics     *metrics.HTTPServerMetrics
	service     string
	defaultMode string
	logger      *slog.Logger
}

func NewRouter(
	ingestUC ports.DocumentIngestor,
	queryUC ports.QueryService,
	repo ports.DocumentReader,
	serverMetrics *metrics.HTTPServerMetrics,
	service, defaultMode string,
	logger *slog.Logger,
) *Router {
	return &Router{
		ingestUC:    ingestUC,
		queryUC:     queryUC,
		repo:        repo,
		metrics:     serverMetrics,
		service:     service,
		defaultMode: defaultMode,
		logger:      logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/query", rt.query)
	mux.Handle("/metrics", rt.metrics.Handler())

	handler := accessLogMiddleware(mux)
	handler = rt.metrics.Middleware(rt.service, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestUC.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		rt.writeError(r, w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		rt.writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Mode     string `json:"mode"`
		Question string `json:"question"`
		Limit    int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}
	if strings.TrimSpace(req.Mode) == "" {
		req.Mode = rt.defaultMode
	}

	start := time.Now()
	result, err := rt.queryUC.Answer(r.Context(), req.Mode, req.Question, req.Limit)
	if err != nil {
		rt.writeError(r, w, err)
		return
	}

	rt.metrics.RecordQuery(rt.service, string(result.Mode), len(result.Sources), time.Since(start))
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) writeError(r *http.Request, w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rt.logger.Error("request failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
