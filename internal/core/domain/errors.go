package domain

import "errors"

// Domain errors classify walk and render failures. Only ErrNotFound on the
// walk root and ErrWriteFailed surface as process failure; everything else
// degrades to a skipped subtree with a recorded diagnostic.
var (
	// ErrNotFound indicates a requested item does not exist. Fatal when
	// the walk root does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates the authenticated account cannot read an
	// item. The subtree is skipped and the walk continues.
	ErrAccessDenied = errors.New("access denied")

	// ErrRateLimited indicates the remote service throttled a call.
	// Retried with backoff; escalates to a skip when retries exhaust.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransient indicates a temporary remote or network failure.
	// Retried with backoff; escalates to a skip when retries exhaust.
	ErrTransient = errors.New("transient error")

	// ErrWriteFailed indicates the report output could not be written.
	// Fatal, aborts the run.
	ErrWriteFailed = errors.New("write failed")

	// ErrNoCredentials indicates no stored OAuth credentials were found.
	// The user must run login first.
	ErrNoCredentials = errors.New("no credentials, run 'drivescope login' first")
)

// IsRetryable reports whether an error should be retried with backoff
// rather than skipped or surfaced immediately.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
