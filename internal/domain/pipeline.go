package domain

import (
	"fmt"
	"time"

	"github.com/vilaca/dora-metrics/internal/timeparse"
)

// Deployment represents a deployment of a project to an environment.
// Only the creation time is consumed by metric calculation.
type Deployment struct {
	ID        int
	ProjectID int
	CreatedAt time.Time
}

// Pipeline represents a CI/CD pipeline run.
// Timestamps are kept as returned by the API and parsed on use.
type Pipeline struct {
	ID        int
	ProjectID int
	Status    Status
	Ref       string
	CreatedAt string
	UpdatedAt string
	WebURL    string
}

// Job represents a single job within a pipeline.
// StartedAt and FinishedAt are raw API timestamps, nil for jobs that never ran.
type Job struct {
	ID         int
	PipelineID int
	Name       string
	Stage      string
	Status     Status
	StartedAt  *string
	FinishedAt *string
}

// Duration returns the time between creation and last update.
func (p Pipeline) Duration() (time.Duration, error) {
	return between(p.CreatedAt, p.UpdatedAt)
}

// Duration returns the time between start and finish. A job missing either
// timestamp yields an error wrapping *timeparse.DateFormatError.
func (j Job) Duration() (time.Duration, error) {
	if j.StartedAt == nil || j.FinishedAt == nil {
		return 0, fmt.Errorf("missing start or finish time: %w", &timeparse.DateFormatError{})
	}
	return between(*j.StartedAt, *j.FinishedAt)
}

func between(start, end string) (time.Duration, error) {
	from, err := timeparse.Parse(start)
	if err != nil {
		return 0, err
	}
	to, err := timeparse.Parse(end)
	if err != nil {
		return 0, err
	}
	return to.Sub(from), nil
}

// Status represents the state of a pipeline or job.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
	StatusSkipped  Status = "skipped"
	StatusManual   Status = "manual"
)

// IsTerminal returns true if the status is in a final state.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusCanceled
}

// IsRestore reports whether the job is a successful restoration job.
func (j Job) IsRestore() bool {
	return j.Name == RestoreJobName && j.Status == StatusSuccess
}
