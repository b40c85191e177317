package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Listener is the short-lived HTTP server that hosts a [CallbackHandler] for
// one authorization attempt.
//
// The bound port is held only for the attempt's lifetime; Close must run on
// every exit path so a failed flow does not leak the port into the next run.
type Listener struct {
	server *http.Server
	errs   chan error
}

// NewListener creates a Listener bound to addr serving the given handler
// through a [BasicRouter] with the given middleware applied.
func NewListener(addr string, handler Handler, middleware ...Middleware) *Listener {
	router := NewBasicRouter()
	router.Use(middleware...)
	router.Handler(handler)

	return &Listener{
		server: &http.Server{Addr: addr, Handler: router},
		errs:   make(chan error, 1),
	}
}

// Start binds the listener's port and begins serving in a background
// goroutine.
//
// The bind happens synchronously so a port squatter is reported before the
// caller sends anyone to the redirect URI. Serve errors other than graceful
// shutdown surface on [Listener.Errors].
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := l.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.errs <- err
		}
	}()

	return nil
}

// Errors returns the channel carrying a fatal serve error, if any.
func (l *Listener) Errors() <-chan error {
	return l.errs
}

// Close gracefully shuts the listener down, releasing the bound port.
//
// In-flight requests get a short grace period so the acknowledgment page
// reaches the browser.
func (l *Listener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return l.server.Shutdown(ctx)
}
