package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/soundprint/soundprint/internal/shared"
)

// CallbackResult contains what the provider's redirect carried: either an
// authorization code (with the echoed state token) or an explicit denial.
type CallbackResult struct {
	Code  string
	State string
	err   error
}

func (r CallbackResult) Error() error {
	return r.err
}

// CallbackHandler receives the provider's authorization redirect.
//
// It extracts the code or error query parameter and delivers exactly one
// result through a channel. Verifying the state token and exchanging the code
// belong to the flow manager, not the listener.
//
// Implements the [Handler] interface for registration with a [Router].
type CallbackHandler struct {
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a new single-shot callback handler.
func NewCallbackHandler() *CallbackHandler {
	return &CallbackHandler{
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the redirect request.
//
// The HTML acknowledgment is written before the result is delivered so the
// user's browser never sees a connection reset from the listener's teardown.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle the redirect once; the listener is scoped to one attempt.
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		writePage(w, "Authorization Declined", "You can close this window and return to the terminal.")
		h.Send(CallbackResult{err: fmt.Errorf("%w: %s", shared.ErrAuthDenied, errParam)})
		return
	}

	code := query.Get("code")
	if code == "" {
		writePage(w, "Authorization Failed", "The redirect carried no authorization code. You can close this window.")
		h.Send(CallbackResult{err: fmt.Errorf("%w: redirect carried no code", shared.ErrAuthDenied)})
		return
	}

	writePage(w, "Authorization Successful", "You can close this window and return to the terminal.")
	h.Send(CallbackResult{Code: code, State: query.Get("state")})
}

// Send delivers the callback result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving the redirect outcome.
//
// The channel receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func writePage(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`, title, title, message)
}
