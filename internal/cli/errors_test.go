package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/dora-metrics/internal/api"
	"github.com/vilaca/dora-metrics/internal/timeparse"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
		wantHint    string
	}{
		{"unauthorized", &api.APIError{StatusCode: 401}, "GitLab rejected the credentials", "GITLAB_TOKEN"},
		{"forbidden", fmt.Errorf("project 3: %w", &api.APIError{StatusCode: 403}), "GitLab rejected the credentials", "read_api"},
		{"not found", &api.APIError{StatusCode: 404}, "GitLab resource not found", "IDs"},
		{"server error", &api.APIError{StatusCode: 500}, "GitLab request failed", ""},
		{"bad date", fmt.Errorf("pipeline 1: %w", &timeparse.DateFormatError{Text: "x"}), "unsupported timestamp", "2024-01-15T10:00:00Z"},
		{"deadline", fmt.Errorf("request failed: %w", context.DeadlineExceeded), "request timed out", "--timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)

			var cliErr *CLIError
			require.True(t, errors.As(mapped, &cliErr))
			assert.Equal(t, tt.wantMessage, cliErr.Message)
			assert.Contains(t, cliErr.Hint, tt.wantHint)
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	assert.Nil(t, MapError(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, MapError(plain))

	cliErr := NewCLIError("already mapped", "hint", nil)
	assert.Same(t, cliErr, MapError(cliErr))
}

func TestPrintError(t *testing.T) {
	buf := &bytes.Buffer{}

	code := printError(buf, &api.APIError{StatusCode: 401, Path: "/groups/1/projects"})

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "Error: GitLab rejected the credentials")
	assert.Contains(t, buf.String(), "Hint: ")
}
