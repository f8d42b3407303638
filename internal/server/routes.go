package server

import "net/http"

func (s *Server[B, C]) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /profile", s.handleProfile)
	mux.HandleFunc("GET /settings", s.handleSettings)

	return mux
}
