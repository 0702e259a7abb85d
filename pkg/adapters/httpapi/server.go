// Package httpapi exposes the editing session over a JSON HTTP API for the
// canvas UI: node/edge mutation, catalog management, validation, and export.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storyflow/storyflow/internal/editor"
	"github.com/storyflow/storyflow/internal/export"
	"github.com/storyflow/storyflow/internal/presentation/graph"
	"github.com/storyflow/storyflow/internal/traverse"
	"github.com/storyflow/storyflow/pkg/domain"
	"github.com/storyflow/storyflow/pkg/ports"
)

// Workspace is the slice of the storyflow facade the server needs: graph
// reads via ports.GraphSource plus the mutation and export surface.
type Workspace interface {
	ports.GraphSource
	Store() *editor.Store
	Export(ctx context.Context, sink ports.ExportSink) (export.Document, []traverse.Warning, error)
	BuildDocument() (export.Document, []traverse.Warning, error)
}

// Server holds the HTTP handlers over one workspace.
type Server struct {
	ws      Workspace
	trainer ports.ExportSink // optional; nil disables POST /export/train
	metrics *metrics
	logger  *slog.Logger
}

// NewHandler creates the editor API handler. trainer may be nil when no
// training endpoint is configured.
func NewHandler(ws Workspace, trainer ports.ExportSink, logger *slog.Logger) http.Handler {
	s := &Server{
		ws:      ws,
		trainer: trainer,
		metrics: newMetrics(),
		logger:  logger,
	}

	r := chi.NewRouter()

	r.Get("/graph", s.GetGraph)
	r.Get("/graph/mermaid", s.GetMermaid)
	r.Get("/graph/dot", s.GetDOT)
	r.Get("/validate", s.Validate)

	r.Post("/nodes", s.AddNode)
	r.Delete("/nodes/{id}", s.RemoveNode)
	r.Patch("/nodes/{id}/payload", s.UpdatePayload)
	r.Post("/nodes/{id}/intent/select", s.SelectIntent)
	r.Post("/nodes/{id}/intent/edits", s.SaveIntentEdits)
	r.Post("/nodes/{id}/action/select", s.SelectAction)
	r.Post("/nodes/{id}/action/edits", s.SaveActionEdits)
	r.Post("/nodes/{id}/story-name", s.SetStoryName)

	r.Post("/edges", s.Connect)
	r.Delete("/edges/{id}", s.RemoveEdge)

	r.Post("/intents", s.DefineIntent)
	r.Post("/actions", s.DefineAction)
	r.Put("/actions", s.UpsertAction)
	r.Get("/functions", s.ListFunctions)

	r.Get("/export", s.GetExport)
	r.Post("/export/train", s.Train)

	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes. User input problems
// come back as structured JSON so the UI can surface the message verbatim.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDuplicateDefinition):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNodeNotFound), errors.Is(err, domain.ErrEdgeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidReference), errors.Is(err, domain.ErrUnknownKind):
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	return v, err
}

// --- graph introspection ---

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.ws.Snapshot())
}

// GetMermaid handles GET /graph/mermaid.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(s.ws.Snapshot())))
}

// GetDOT handles GET /graph/dot.
func (s *Server) GetDOT(w http.ResponseWriter, r *http.Request) {
	out, err := graph.GenerateDOT(s.ws.Snapshot())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write([]byte(out))
}

// Validate handles GET /validate: traversal warnings without the document.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	res, err := traverse.Traverse(s.ws.Snapshot())
	if err != nil {
		s.writeError(w, err)
		return
	}
	warnings := make([]warningJSON, 0, len(res.Warnings))
	for _, warn := range res.Warnings {
		warnings = append(warnings, warningJSON{Code: string(warn.Code), NodeID: warn.NodeID, Message: warn.Message})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

type warningJSON struct {
	Code    string `json:"code"`
	NodeID  string `json:"nodeId,omitempty"`
	Message string `json:"message"`
}

// --- node mutation ---

// AddNode handles POST /nodes.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		Kind     domain.NodeKind `json:"kind"`
		Position domain.Position `json:"position"`
	}](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	node, err := s.ws.Store().AddNode(body.Kind, body.Position)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("add_node").Inc()
	s.writeJSON(w, http.StatusCreated, node)
}

// RemoveNode handles DELETE /nodes/{id}.
func (s *Server) RemoveNode(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.Store().RemoveNode(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("remove_node").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePayload handles PATCH /nodes/{id}/payload with a partial payload
// object. Catalogs are untouched; the write-back paths have their own
// endpoints.
func (s *Server) UpdatePayload(w http.ResponseWriter, r *http.Request) {
	partial, err := decode[map[string]any](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().UpdateNodePayload(chi.URLParam(r, "id"), partial); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("update_payload").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// SelectIntent handles POST /nodes/{id}/intent/select (change mode).
func (s *Server) SelectIntent(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		IntentID string `json:"intentId"`
	}](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().SelectIntent(chi.URLParam(r, "id"), body.IntentID); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("select_intent").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// SaveIntentEdits handles POST /nodes/{id}/intent/edits (edit mode, writes
// back to the catalog).
func (s *Server) SaveIntentEdits(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		Examples []string `json:"examples"`
	}](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().SaveIntentEdits(chi.URLParam(r, "id"), body.Examples); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("save_intent_edits").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// SelectAction handles POST /nodes/{id}/action/select (change mode).
func (s *Server) SelectAction(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		Name string `json:"name"`
	}](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().SelectAction(chi.URLParam(r, "id"), body.Name); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("select_action").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// SaveActionEdits handles POST /nodes/{id}/action/edits (edit mode, upserts
// the catalog entry).
func (s *Server) SaveActionEdits(w http.ResponseWriter, r *http.Request) {
	payload, err := decode[domain.ActionPayload](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().SaveActionEdits(chi.URLParam(r, "id"), payload); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("save_action_edits").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// SetStoryName handles POST /nodes/{id}/story-name.
func (s *Server) SetStoryName(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		StoryName string `json:"storyName"`
	}](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().SetStoryName(chi.URLParam(r, "id"), body.StoryName); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("set_story_name").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// --- edge mutation ---

// Connect handles POST /edges.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	edge, err := s.ws.Store().Connect(body.Source, body.Target)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("connect").Inc()
	s.writeJSON(w, http.StatusCreated, edge)
}

// RemoveEdge handles DELETE /edges/{id}.
func (s *Server) RemoveEdge(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.Store().RemoveEdge(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("remove_edge").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// --- catalogs ---

// DefineIntent handles POST /intents.
func (s *Server) DefineIntent(w http.ResponseWriter, r *http.Request) {
	def, err := decode[domain.IntentDefinition](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().DefineIntent(def); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("define_intent").Inc()
	s.writeJSON(w, http.StatusCreated, def)
}

// DefineAction handles POST /actions.
func (s *Server) DefineAction(w http.ResponseWriter, r *http.Request) {
	def, err := decode[domain.ActionDefinition](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().DefineAction(def); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("define_action").Inc()
	s.writeJSON(w, http.StatusCreated, def)
}

// UpsertAction handles PUT /actions.
func (s *Server) UpsertAction(w http.ResponseWriter, r *http.Request) {
	def, err := decode[domain.ActionDefinition](r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.ws.Store().UpsertActionDefinition(def); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.mutations.WithLabelValues("upsert_action").Inc()
	s.writeJSON(w, http.StatusOK, def)
}

// ListFunctions handles GET /functions.
func (s *Server) ListFunctions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.ws.Functions())
}

// --- export ---

// GetExport handles GET /export: the document plus warnings, without
// delivering anywhere. The UI uses this for the file-download flow.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	doc, warnings, err := s.ws.BuildDocument()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.exports.Inc()

	warnJSON := make([]warningJSON, 0, len(warnings))
	for _, warn := range warnings {
		warnJSON = append(warnJSON, warningJSON{Code: string(warn.Code), NodeID: warn.NodeID, Message: warn.Message})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"document": doc,
		"warnings": warnJSON,
	})
}

// Train handles POST /export/train: build and deliver to the configured
// training endpoint.
func (s *Server) Train(w http.ResponseWriter, r *http.Request) {
	if s.trainer == nil {
		http.Error(w, "No training endpoint configured", http.StatusNotImplemented)
		return
	}

	doc, warnings, err := s.ws.Export(r.Context(), s.trainer)
	if err != nil {
		s.metrics.exportErr.Inc()
		s.logger.Error("training export failed", "error", err)
		s.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	s.metrics.exports.Inc()

	warnJSON := make([]warningJSON, 0, len(warnings))
	for _, warn := range warnings {
		warnJSON = append(warnJSON, warningJSON{Code: string(warn.Code), NodeID: warn.NodeID, Message: warn.Message})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"stories":  len(doc.Stories),
		"warnings": warnJSON,
	})
}
