// Package timeparse parses the timestamps returned by the GitLab API.
//
// The API mixes fractional-second and whole-second UTC timestamps across
// endpoints, so every consumed timestamp goes through Parse.
package timeparse

import (
	"fmt"
	"time"
)

const (
	// FractionalLayout matches timestamps such as 2024-01-15T10:00:00.123Z.
	FractionalLayout = "2006-01-02T15:04:05.999999999Z"
	// WholeSecondLayout matches timestamps such as 2024-01-15T10:00:00Z.
	WholeSecondLayout = "2006-01-02T15:04:05Z"
)

var layouts = []string{FractionalLayout, WholeSecondLayout}

// DateFormatError is returned when text matches none of the supported layouts.
type DateFormatError struct {
	Text string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("date format for %q is not supported", e.Text)
}

// Parse parses text as a UTC timestamp, trying the fractional-second layout
// first and the whole-second layout second.
func Parse(text string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &DateFormatError{Text: text}
}

// Format renders t in the whole-second layout expected by API date filters.
func Format(t time.Time) string {
	return t.UTC().Format(WholeSecondLayout)
}
