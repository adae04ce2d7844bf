package domain

import (
	"math"
	"time"
)

// Window is the time range metrics are computed over. Both bounds are inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow creates a window of the given number of days ending at end.
func NewWindow(end time.Time, days int) Window {
	return Window{
		Start: end.AddDate(0, 0, -days),
		End:   end,
	}
}

// DayCount returns the inclusive number of calendar days spanned by the window:
// whole days between Start and End, rounded down, plus one.
// An inverted window yields zero or a negative count.
func (w Window) DayCount() int {
	days := math.Floor(w.End.Sub(w.Start).Hours() / 24)
	return int(days) + 1
}

// MetricResult holds the four DORA metrics for one project and window.
type MetricResult struct {
	// DeploymentFrequency is deployments per day.
	DeploymentFrequency float64
	// LeadTimeForChanges is the mean successful pipeline duration in hours.
	LeadTimeForChanges float64
	// ChangeFailureRate is failed jobs per pipeline, as a ratio.
	ChangeFailureRate float64
	// MeanTimeToRestore is the mean restore job duration in hours.
	MeanTimeToRestore float64
}
