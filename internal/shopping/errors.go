package shopping

import (
	"errors"
	"fmt"

	"github.com/julianstephens/basket/internal/constants"
)

var (
	// ErrSessionNotActive is returned by operations that need an Active session.
	ErrSessionNotActive = errors.New("shopping session is not active")
	// ErrAlreadyStarted is returned when Start or Attach is called twice on one controller.
	ErrAlreadyStarted = errors.New("shopping session already started")
	// ErrListCompleted is returned when a session is started on a completed list.
	ErrListCompleted = errors.New("shopping list is already completed")
	// ErrNothingSelected is returned by Confirm when no item is staged.
	ErrNothingSelected = errors.New("no item selected for picking")
	// ErrItemNotInList is returned when picking an item from another list.
	ErrItemNotInList = errors.New("item does not belong to the session's list")

	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidQuantity = fmt.Errorf("quantity must be between %d and %d", constants.MinQuantity, constants.MaxQuantity)
)

// ValidationError reports rejected picking input. Nothing is mutated when one
// is returned, so callers can re-prompt for Field.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a picking input validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
