package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lukman83/offerscrap/internal/models"
)

var (
	// ErrInput is returned when a batch has no usable URL.
	ErrInput = errors.New("provide url (string) or urls (string[])")

	// ErrTimeout marks a page operation that ran out of time.
	ErrTimeout = errors.New("page operation timed out")
)

// SessionSetupError means the interactive store setup could not complete.
// Candidates holds the first visible labels the setup could choose from.
type SessionSetupError struct {
	Store      models.StoreID
	Step       string
	Candidates []string
	Err        error
}

func (e *SessionSetupError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s session setup failed at %q", e.Store, e.Step)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Candidates) > 0 {
		fmt.Fprintf(&b, " (candidates: %s)", strings.Join(e.Candidates, " | "))
	}
	return b.String()
}

func (e *SessionSetupError) Unwrap() error { return e.Err }

// ExtractionError wraps a failure while reading cards out of a rendered page.
type ExtractionError struct {
	Store models.StoreID
	URL   string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed for %s: %v", e.Store, e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IsSessionSetup reports whether err came from the interactive store setup.
func IsSessionSetup(err error) bool {
	var se *SessionSetupError
	return errors.As(err, &se)
}
