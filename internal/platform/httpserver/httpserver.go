// Package httpserver builds the *http.Server main runs.
package httpserver

import (
	"net/http"
	"time"

	"warden/internal/platform/config"
)

const readHeaderTimeout = 5 * time.Second

// New applies the configured timeouts. Zero values keep net/http's defaults,
// except the header timeout, which is always bounded.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
