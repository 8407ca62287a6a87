package metrics

import (
	"context"
	"net/http"
)

// Server is a minimal HTTP listener exposing /metrics, kept entirely
// separate from the socket protocol's frontend.Server.
type Server struct {
	http *http.Server
}

// NewServer creates a metrics Server bound to addr (e.g. "127.0.0.1:9299").
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &Server{http: &http.Server{Addr: addr, Handler: mux}}
}

// ListenAndServe blocks serving /metrics until the server is shut down.
func (s *Server) ListenAndServe() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
