package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vilaca/dora-metrics/internal/api"
	"github.com/vilaca/dora-metrics/internal/domain"
	"github.com/vilaca/dora-metrics/internal/timeparse"
)

// Client implements api.Client for GitLab.
// Follows Single Responsibility Principle - only handles GitLab API communication.
type Client struct {
	baseURL    string
	token      string
	authMode   api.AuthMode
	httpClient api.HTTPClient
}

// NewClient creates a new GitLab client.
// Uses dependency injection for HTTPClient (IoC).
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	authMode := config.AuthMode
	if authMode == "" {
		authMode = api.AuthPrivateToken
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		token:      config.Token,
		authMode:   authMode,
		httpClient: httpClient,
	}
}

// GetGroupProjects retrieves every project directly owned by a group.
func (c *Client) GetGroupProjects(ctx context.Context, groupID int) ([]domain.Project, error) {
	glProjects, err := paginate[gitlabProject](ctx, c, fmt.Sprintf("/groups/%d/projects", groupID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects of group %d: %w", groupID, err)
	}

	return convertProjects(glProjects), nil
}

// GetSubgroups retrieves every direct subgroup of a group.
func (c *Client) GetSubgroups(ctx context.Context, groupID int) ([]domain.Group, error) {
	glGroups, err := paginate[gitlabGroup](ctx, c, fmt.Sprintf("/groups/%d/subgroups", groupID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get subgroups of group %d: %w", groupID, err)
	}

	return convertGroups(glGroups), nil
}

// GetDeployments retrieves deployments created within the window.
func (c *Client) GetDeployments(ctx context.Context, projectID int, window domain.Window) ([]domain.Deployment, error) {
	query := url.Values{}
	query.Set("created_after", timeparse.Format(window.Start))
	query.Set("created_before", timeparse.Format(window.End))

	glDeployments, err := paginate[gitlabDeployment](ctx, c, fmt.Sprintf("/projects/%d/deployments", projectID), query)
	if err != nil {
		return nil, fmt.Errorf("failed to get deployments of project %d: %w", projectID, err)
	}

	deployments := make([]domain.Deployment, len(glDeployments))
	for i, gld := range glDeployments {
		createdAt, err := timeparse.Parse(gld.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("deployment %d: %w", gld.ID, err)
		}
		deployments[i] = domain.Deployment{
			ID:        gld.ID,
			ProjectID: projectID,
			CreatedAt: createdAt,
		}
	}

	return deployments, nil
}

// GetPipelines retrieves pipelines updated within the window.
func (c *Client) GetPipelines(ctx context.Context, projectID int, window domain.Window) ([]domain.Pipeline, error) {
	query := url.Values{}
	query.Set("updated_after", timeparse.Format(window.Start))
	query.Set("updated_before", timeparse.Format(window.End))

	glPipelines, err := paginate[gitlabPipeline](ctx, c, fmt.Sprintf("/projects/%d/pipelines", projectID), query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pipelines of project %d: %w", projectID, err)
	}

	pipelines := make([]domain.Pipeline, len(glPipelines))
	for i, glp := range glPipelines {
		pipelines[i] = convertPipeline(glp, projectID)
	}

	return pipelines, nil
}

// GetPipelineJobs retrieves the jobs of a pipeline with a single request.
func (c *Client) GetPipelineJobs(ctx context.Context, projectID, pipelineID int) ([]domain.Job, error) {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(api.DefaultPageSize))

	var glJobs []gitlabJob
	path := fmt.Sprintf("/projects/%d/pipelines/%d/jobs", projectID, pipelineID)
	if err := c.doRequest(ctx, path, query, &glJobs); err != nil {
		return nil, fmt.Errorf("failed to get jobs of pipeline %d: %w", pipelineID, err)
	}

	jobs := make([]domain.Job, len(glJobs))
	for i, glj := range glJobs {
		jobs[i] = convertJob(glj, pipelineID)
	}

	return jobs, nil
}

// doRequest performs a GET request to the GitLab API and decodes the JSON body.
// Follows Single Level of Abstraction Principle (SLAP).
func (c *Client) doRequest(ctx context.Context, path string, query url.Values, result interface{}) error {
	endpoint := c.baseURL + "/api/v4" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.authMode == api.AuthPrivateToken {
		req.Header.Set("PRIVATE-TOKEN", c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &api.APIError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// convertProjects converts GitLab projects to domain models.
func convertProjects(glProjects []gitlabProject) []domain.Project {
	projects := make([]domain.Project, len(glProjects))
	for i, glp := range glProjects {
		projects[i] = domain.Project{
			ID:                glp.ID,
			Name:              glp.Name,
			PathWithNamespace: glp.PathWithNamespace,
			WebURL:            glp.WebURL,
		}
	}
	return projects
}

// convertGroups converts GitLab groups to domain models.
func convertGroups(glGroups []gitlabGroup) []domain.Group {
	groups := make([]domain.Group, len(glGroups))
	for i, glg := range glGroups {
		groups[i] = domain.Group{
			ID:       glg.ID,
			Name:     glg.Name,
			FullPath: glg.FullPath,
		}
		if glg.ParentID != nil {
			groups[i].ParentID = *glg.ParentID
		}
	}
	return groups
}

// convertPipeline converts a GitLab pipeline to domain model.
func convertPipeline(glp gitlabPipeline, projectID int) domain.Pipeline {
	return domain.Pipeline{
		ID:        glp.ID,
		ProjectID: projectID,
		Status:    convertStatus(glp.Status),
		Ref:       glp.Ref,
		CreatedAt: glp.CreatedAt,
		UpdatedAt: glp.UpdatedAt,
		WebURL:    glp.WebURL,
	}
}

// convertJob converts a GitLab job to domain model.
func convertJob(glj gitlabJob, pipelineID int) domain.Job {
	return domain.Job{
		ID:         glj.ID,
		PipelineID: pipelineID,
		Name:       glj.Name,
		Stage:      glj.Stage,
		Status:     convertStatus(glj.Status),
		StartedAt:  glj.StartedAt,
		FinishedAt: glj.FinishedAt,
	}
}

// convertStatus converts GitLab status to domain status.
func convertStatus(glStatus string) domain.Status {
	switch glStatus {
	case "pending":
		return domain.StatusPending
	case "running":
		return domain.StatusRunning
	case "success":
		return domain.StatusSuccess
	case "failed":
		return domain.StatusFailed
	case "canceled":
		return domain.StatusCanceled
	case "skipped":
		return domain.StatusSkipped
	case "manual":
		return domain.StatusManual
	default:
		return domain.Status(glStatus)
	}
}

// GitLab API response types.
// Timestamps stay strings; pipeline and job times are parsed only where consumed.
type gitlabProject struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
}

type gitlabGroup struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	FullPath string `json:"full_path"`
	ParentID *int   `json:"parent_id"`
}

type gitlabDeployment struct {
	ID        int    `json:"id"`
	CreatedAt string `json:"created_at"`
}

type gitlabPipeline struct {
	ID        int    `json:"id"`
	Status    string `json:"status"`
	Ref       string `json:"ref"`
	WebURL    string `json:"web_url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type gitlabJob struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Stage      string  `json:"stage"`
	Status     string  `json:"status"`
	StartedAt  *string `json:"started_at"`
	FinishedAt *string `json:"finished_at"`
}
