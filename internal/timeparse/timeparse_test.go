package timeparse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"fractional", "2024-01-15T10:00:00.123Z", time.Date(2024, 1, 15, 10, 0, 0, 123000000, time.UTC)},
		{"microseconds", "2024-01-15T10:00:00.123456Z", time.Date(2024, 1, 15, 10, 0, 0, 123456000, time.UTC)},
		{"whole seconds", "2024-01-15T10:00:00Z", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %v, got %v", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParse_ZeroFractionMatchesWholeSeconds(t *testing.T) {
	fractional, err := Parse("2024-01-15T10:00:00.000Z")
	require.NoError(t, err)

	whole, err := Parse("2024-01-15T10:00:00Z")
	require.NoError(t, err)

	assert.True(t, fractional.Equal(whole))
}

func TestParse_Unsupported(t *testing.T) {
	for _, text := range []string{"2024-01-15", "", "2024-01-15T10:00:00+02:00", "yesterday"} {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)

			require.Error(t, err)
			var dateErr *DateFormatError
			require.True(t, errors.As(err, &dateErr))
			assert.Equal(t, text, dateErr.Text)
			assert.Contains(t, err.Error(), "is not supported")
		})
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 30, 15, 999, time.FixedZone("CET", 3600))

	assert.Equal(t, "2024-03-01T07:30:15Z", Format(ts))
}
