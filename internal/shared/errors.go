package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authorization flow errors
	ErrAuthDenied    = fmt.Errorf("authorization denied")
	ErrTokenExchange = fmt.Errorf("token exchange failed")
	ErrNotAuthorized = fmt.Errorf("not authorized")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// API and pipeline errors
	ErrAPIRequest   = fmt.Errorf("API request failed")
	ErrProfileFetch = fmt.Errorf("profile fetch failed")
	ErrCacheMiss    = fmt.Errorf("cache miss")
	ErrPersistence  = fmt.Errorf("cache write failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// Exit codes for failure classes that invalidate the entire run.
//
// Documented alongside the commands that produce them so wrapper scripts can
// branch on the failure class.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitAuthDenied   = 2
	ExitExchange     = 3
	ExitProfileFetch = 4
)
