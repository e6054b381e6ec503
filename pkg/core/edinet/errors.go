package edinet

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound reports that no filing matched the search; it is an outcome,
// not a failure, and callers must be able to tell it apart from errors.
var ErrNotFound = errors.New("no matching filing found")

// LocatorError wraps an upstream listing failure. The locator never retries;
// re-issuing the search is the caller's decision.
type LocatorError struct {
	Date string // listing date being queried, YYYY-MM-DD
	Err  error
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("listing query for %s failed: %v", e.Date, e.Err)
}

func (e *LocatorError) Unwrap() error { return e.Err }

// FetchError wraps a package download or extraction failure. Fatal for the
// affected filing only.
type FetchError struct {
	DocID string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("package fetch for %s failed: %v", e.DocID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RateLimitError reports that the upstream admission window is exhausted.
// RetryAfter tells the caller when admission resumes; nothing is queued.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}
