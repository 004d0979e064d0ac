package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer wraps http.Server so main owns only start and graceful stop.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds the server with the configured timeouts. The header
// read timeout stays short regardless of the body timeouts so slow-header
// clients cannot pin connections.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{server: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails. It returns http.ErrServerClosed after a graceful stop.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
