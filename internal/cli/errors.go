package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vilaca/dora-metrics/internal/api"
	"github.com/vilaca/dora-metrics/internal/timeparse"
)

// CLIError wraps errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsAuth():
			return NewCLIError("GitLab rejected the credentials", "Check GITLAB_TOKEN and --auth-mode; the token needs read_api scope", err)
		case apiErr.IsNotFound():
			return NewCLIError("GitLab resource not found", "Check the group and project IDs", err)
		default:
			return NewCLIError("GitLab request failed", "", err)
		}
	}

	var dateErr *timeparse.DateFormatError
	if errors.As(err, &dateErr) {
		return NewCLIError("unsupported timestamp", "Timestamps must look like 2024-01-15T10:00:00Z or 2024-01-15T10:00:00.123Z", err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewCLIError("request timed out", "Raise --timeout", err)
	case errors.Is(err, context.Canceled):
		return NewCLIError("interrupted", "", err)
	}

	return err
}

// printError writes err and its hint to w and returns the exit code.
func printError(w io.Writer, err error) int {
	mapped := MapError(err)

	var cliErr *CLIError
	if errors.As(mapped, &cliErr) {
		fmt.Fprintf(w, "Error: %s\n", cliErr.Error())
		if cliErr.Hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", cliErr.Hint)
		}
		return cliErr.ExitCode
	}

	fmt.Fprintf(w, "Error: %v\n", mapped)
	return 1
}
