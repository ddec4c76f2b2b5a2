package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for the anchoring API. The write timeout sits
// above the 30s request timeout and the content gateway client timeout so a
// slow remote fetch during verification fails in the handler, not at the
// connection.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
