package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/drivescope/drivescope-cli/internal/core/domain"
)

// wrapError maps a Google API failure onto the domain error taxonomy.
// Context cancellation passes through untouched so the walker can abort.
// Anything that is not a recognisable API status is treated as transient:
// network hiccups and 5xx responses deserve a retry, not a skip.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("drive call: %v: %w", err, domain.ErrTransient)
	}

	switch {
	case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
		return fmt.Errorf("drive call: %s: %w", gerr.Message, domain.ErrAccessDenied)
	case gerr.Code == http.StatusNotFound:
		return fmt.Errorf("drive call: %s: %w", gerr.Message, domain.ErrNotFound)
	case gerr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("drive call: %s: %w", gerr.Message, domain.ErrRateLimited)
	case gerr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("drive call: %s (status %d): %w", gerr.Message, gerr.Code, domain.ErrTransient)
	default:
		return err
	}
}

// retryAfterSeconds extracts the Retry-After header from a 429 response,
// returning 0 when absent or unparsable.
func retryAfterSeconds(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	var secs int
	if _, scanErr := fmt.Sscanf(gerr.Header.Get("Retry-After"), "%d", &secs); scanErr != nil {
		return 0
	}
	return secs
}
