package httpserver

import (
	"net/http"
	"time"

	"todotrack/internal/platform/config"
)

// New builds the HTTP server for the API. The write and idle timeouts
// come from config; the read-header timeout is fixed because nothing in
// the API needs slow headers.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}
