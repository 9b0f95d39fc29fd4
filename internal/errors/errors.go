package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/basket/internal/logger"
)

// Hinter is implemented by errors that can suggest a next step to the user.
type Hinter interface {
	Hint() string
}

// Format formats an error message with a consistent "Error: " prefix. A hint
// from any error in the chain is appended on its own line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	var h Hinter
	if stderrors.As(err, &h) && h.Hint() != "" {
		msg += "\nHint: " + h.Hint()
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// WithHint attaches a hint to err. It returns nil for a nil error.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hinted{err: err, hint: hint}
}

type hinted struct {
	err  error
	hint string
}

func (h *hinted) Error() string { return h.err.Error() }
func (h *hinted) Unwrap() error { return h.err }
func (h *hinted) Hint() string  { return h.hint }

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
