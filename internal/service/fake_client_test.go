package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vilaca/dora-metrics/internal/domain"
	"github.com/vilaca/dora-metrics/internal/timeparse"
)

// fakeClient is an in-memory test double for api.Client.
// Follows FIRST principles - Independent tests.
type fakeClient struct {
	groupProjects map[int][]domain.Project
	subgroups     map[int][]domain.Group
	deployments   map[int][]domain.Deployment
	pipelines     map[int][]domain.Pipeline
	jobs          map[int][]domain.Job // pipeline ID -> jobs

	errOn    string // method name that returns err
	err      error
	jobCalls []int // pipeline IDs whose jobs were requested
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		groupProjects: make(map[int][]domain.Project),
		subgroups:     make(map[int][]domain.Group),
		deployments:   make(map[int][]domain.Deployment),
		pipelines:     make(map[int][]domain.Pipeline),
		jobs:          make(map[int][]domain.Job),
	}
}

func (f *fakeClient) fail(method string) error {
	if f.errOn == method {
		return f.err
	}
	return nil
}

func (f *fakeClient) GetGroupProjects(ctx context.Context, groupID int) ([]domain.Project, error) {
	if err := f.fail("GetGroupProjects"); err != nil {
		return nil, err
	}
	return f.groupProjects[groupID], nil
}

func (f *fakeClient) GetSubgroups(ctx context.Context, groupID int) ([]domain.Group, error) {
	if err := f.fail("GetSubgroups"); err != nil {
		return nil, err
	}
	return f.subgroups[groupID], nil
}

func (f *fakeClient) GetDeployments(ctx context.Context, projectID int, window domain.Window) ([]domain.Deployment, error) {
	if err := f.fail("GetDeployments"); err != nil {
		return nil, err
	}
	return f.deployments[projectID], nil
}

func (f *fakeClient) GetPipelines(ctx context.Context, projectID int, window domain.Window) ([]domain.Pipeline, error) {
	if err := f.fail("GetPipelines"); err != nil {
		return nil, err
	}
	return f.pipelines[projectID], nil
}

func (f *fakeClient) GetPipelineJobs(ctx context.Context, projectID, pipelineID int) ([]domain.Job, error) {
	f.jobCalls = append(f.jobCalls, pipelineID)
	if err := f.fail("GetPipelineJobs"); err != nil {
		return nil, err
	}
	return f.jobs[pipelineID], nil
}

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// tenDayWindow spans ten inclusive days.
func tenDayWindow() domain.Window {
	return domain.Window{Start: testStart, End: testStart.AddDate(0, 0, 9)}
}

func deploymentsOf(projectID, n int) []domain.Deployment {
	deployments := make([]domain.Deployment, n)
	for i := range deployments {
		deployments[i] = domain.Deployment{ID: i + 1, ProjectID: projectID, CreatedAt: testStart.Add(time.Duration(i) * time.Hour)}
	}
	return deployments
}

func pipelineOf(id int, status domain.Status, leadTime time.Duration) domain.Pipeline {
	created := testStart.Add(time.Duration(id) * time.Hour)
	return domain.Pipeline{
		ID:        id,
		Status:    status,
		CreatedAt: timeparse.Format(created),
		UpdatedAt: timeparse.Format(created.Add(leadTime)),
	}
}

func jobOf(id int, name string, status domain.Status, duration time.Duration) domain.Job {
	started := testStart.Add(time.Duration(id) * time.Minute)
	startedAt := timeparse.Format(started)
	finishedAt := timeparse.Format(started.Add(duration))
	return domain.Job{ID: id, Name: name, Status: status, StartedAt: &startedAt, FinishedAt: &finishedAt}
}

func projectsNamed(ids ...int) []domain.Project {
	projects := make([]domain.Project, len(ids))
	for i, id := range ids {
		projects[i] = domain.Project{ID: id, Name: fmt.Sprintf("project-%d", id)}
	}
	return projects
}
