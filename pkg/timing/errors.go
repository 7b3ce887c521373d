package timing

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an upstream 404 (unknown season/round/session).
// Not worth retrying.
var ErrNotFound = errors.New("not found upstream")

// ExtractionError is the terminal failure of a fetch after all retries,
// carrying the race identity and the last underlying cause.
type ExtractionError struct {
	Season      int
	Round       int
	SessionType string
	Err         error
}

func (e *ExtractionError) Error() string {
	if e.SessionType == "" {
		return fmt.Sprintf("schedule extraction for season %d failed: %v", e.Season, e.Err)
	}
	return fmt.Sprintf("extraction of %d round %d session %s failed: %v",
		e.Season, e.Round, e.SessionType, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
