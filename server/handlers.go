// ABOUTME: JSON API handlers for sessions, saved diagrams, AI generation, and cluster topology.
// ABOUTME: Small request/response structs per endpoint; errors are {"error": ...} with an HTTP status.
package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/clusterlens/clusterlens/kube"
	"github.com/clusterlens/clusterlens/store"
)

// subgraphView is the structure the dashboard sidebar renders: one entry per
// subgraph with its nesting depth, transitive node count, and collapse state.
type subgraphView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Depth     int    `json:"depth"`
	ParentID  string `json:"parentId,omitempty"`
	NodeCount int    `json:"nodeCount"`
	Collapsed bool   `json:"collapsed"`
}

type sessionView struct {
	ID          string         `json:"id"`
	IsFlowchart bool           `json:"isFlowchart"`
	Direction   string         `json:"direction"`
	Subgraphs   []subgraphView `json:"subgraphs"`
}

func viewOf(sess *store.Session) sessionView {
	view := sessionView{
		ID:          sess.ID,
		IsFlowchart: sess.Model.IsFlowchart,
		Direction:   sess.Model.Direction,
		Subgraphs:   []subgraphView{},
	}
	for _, sg := range sess.Model.Subgraphs {
		view.Subgraphs = append(view.Subgraphs, subgraphView{
			ID:        sg.ID,
			Label:     sg.Label,
			Depth:     sg.Depth,
			ParentID:  sg.ParentID,
			NodeCount: sess.Model.TransitiveNodeCount(sg.ID),
			Collapsed: sess.Collapsed[sg.ID],
		})
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http response encode failed err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- sessions ---

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string `json:"source"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	sess := s.sessions.Create(req.Source)
	log.Printf("session created id=%s subgraphs=%d flowchart=%v",
		sess.ID, len(sess.Model.Subgraphs), sess.Model.IsFlowchart)
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleSetSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string `json:"source"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	sess, ok := s.sessions.SetSource(chi.URLParam(r, "id"), req.Source)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	collapsed, ok := s.sessions.Toggle(chi.URLParam(r, "id"), req.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": req.ID, "collapsed": collapsed})
}

func (s *Server) handleRendered(w http.ResponseWriter, r *http.Request) {
	rendered, ok := s.sessions.Rendered(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"source": rendered})
}

// --- saved diagrams ---

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	if s.diagrams == nil {
		writeError(w, http.StatusServiceUnavailable, "diagram library not configured")
		return
	}
	diagrams, err := s.diagrams.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if diagrams == nil {
		diagrams = []store.Diagram{}
	}
	writeJSON(w, http.StatusOK, diagrams)
}

func (s *Server) handleSaveDiagram(w http.ResponseWriter, r *http.Request) {
	if s.diagrams == nil {
		writeError(w, http.StatusServiceUnavailable, "diagram library not configured")
		return
	}
	var req struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Source string `json:"source"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	saved, err := s.diagrams.Save(store.Diagram{ID: req.ID, Title: req.Title, Source: req.Source})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	if s.diagrams == nil {
		writeError(w, http.StatusServiceUnavailable, "diagram library not configured")
		return
	}
	d, err := s.diagrams.Get(chi.URLParam(r, "id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "diagram not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if s.diagrams == nil {
		writeError(w, http.StatusServiceUnavailable, "diagram library not configured")
		return
	}
	if err := s.diagrams.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- AI ---

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "AI client not configured")
		return
	}
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	source, err := s.ai.GenerateDiagram(r.Context(), req.Prompt)
	if err != nil {
		log.Printf("generate failed model=%s err=%v", s.ai.Model(), err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"source": source})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	if s.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "AI client not configured")
		return
	}
	var req struct {
		Source string `json:"source"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Source == "" {
		writeError(w, http.StatusBadRequest, "source is required")
		return
	}
	markdown, err := s.ai.ExplainDiagram(r.Context(), req.Source)
	if err != nil {
		log.Printf("explain failed model=%s err=%v", s.ai.Model(), err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"markdown": markdown,
		"html":     markdownToHTML(markdown),
	})
}

// markdownToHTML converts a markdown string to HTML using goldmark. On
// conversion failure the raw text is returned so the panel still shows
// something.
func markdownToHTML(input string) string {
	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert([]byte(input), &buf); err != nil {
		return input
	}
	return buf.String()
}

// --- topology ---

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	if s.kube == nil {
		writeError(w, http.StatusServiceUnavailable, "cluster client not configured")
		return
	}
	namespaces := r.URL.Query()["namespace"]
	topo, err := kube.Snapshot(r.Context(), s.kube, namespaces)
	if err != nil {
		log.Printf("topology snapshot failed namespaces=%v err=%v", namespaces, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"source": topo.Flowchart()})
}
