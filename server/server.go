// ABOUTME: Dashboard HTTP server wiring sessions, saved diagrams, AI, and cluster topology behind a chi router.
// ABOUTME: Construction uses functional options so each backing service is independently optional.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"k8s.io/client-go/kubernetes"

	"github.com/clusterlens/clusterlens/ai"
	"github.com/clusterlens/clusterlens/store"
)

// Server is the clusterlens dashboard HTTP server. Sessions are always
// available; the diagram library, the AI client, and the cluster client are
// optional and their endpoints answer 503 when unconfigured.
type Server struct {
	sessions  *store.SessionStore
	diagrams  *store.DiagramIndex
	ai        *ai.Client
	kube      kubernetes.Interface
	router    chi.Router
	addr      string
	authToken string
}

// Option configures a Server during construction.
type Option func(*Server)

// WithAddr sets the listen address (default 127.0.0.1:7790).
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithAuthToken enables bearer-token auth on the API routes.
func WithAuthToken(token string) Option {
	return func(s *Server) { s.authToken = token }
}

// WithDiagramIndex attaches the saved-diagram library.
func WithDiagramIndex(idx *store.DiagramIndex) Option {
	return func(s *Server) { s.diagrams = idx }
}

// WithAIClient attaches the diagram generation/explanation client.
func WithAIClient(c *ai.Client) Option {
	return func(s *Server) { s.ai = c }
}

// WithKubeClient attaches the cluster client used for topology snapshots.
func WithKubeClient(client kubernetes.Interface) Option {
	return func(s *Server) { s.kube = client }
}

// NewServer creates a Server around the given session store.
func NewServer(sessions *store.SessionStore, opts ...Option) *Server {
	s := &Server{
		sessions: sessions,
		addr:     "127.0.0.1:7790",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// HTTPServer returns an http.Server with timeouts suitable for the dashboard.
// The caller owns shutdown.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if s.authToken != "" {
		r.Use(AuthMiddleware(s.authToken))
		r.Get("/login", LoginHandler(s.authToken))
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/source", s.handleSetSource)
		r.Post("/sessions/{id}/toggle", s.handleToggle)
		r.Get("/sessions/{id}/rendered", s.handleRendered)

		r.Get("/diagrams", s.handleListDiagrams)
		r.Post("/diagrams", s.handleSaveDiagram)
		r.Get("/diagrams/{id}", s.handleGetDiagram)
		r.Delete("/diagrams/{id}", s.handleDeleteDiagram)

		r.Post("/generate", s.handleGenerate)
		r.Post("/explain", s.handleExplain)
		r.Get("/topology", s.handleTopology)
	})

	return r
}
