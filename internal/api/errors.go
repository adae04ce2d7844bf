package api

import "fmt"

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d for %s: %s", e.StatusCode, e.Path, e.Body)
}

// IsAuth reports whether the error is an authentication or authorization failure.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsNotFound reports whether the requested resource does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}
