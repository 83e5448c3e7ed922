package websiteapi

import "fmt"

// AuthenticationError indicates the upstream rejected our credentials, or a
// second consecutive 401 occurred after a token refresh. It is fatal to the
// current fetch operation.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "website API authentication failed"
	}
	return fmt.Sprintf("website API authentication failed: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// TimeoutError indicates the upstream did not answer within the configured
// deadline. Distinct from FetchError so callers can tell a hung upstream from
// a rejecting one.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("website API %s timed out", e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// FetchError indicates a non-auth upstream failure (HTTP transport errors,
// non-2xx responses, malformed bodies). It aborts the current fetch.
type FetchError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("website API fetch failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("website API fetch failed: %s", e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }
