package api

import (
	"context"

	"github.com/vilaca/dora-metrics/internal/domain"
)

// GroupClient lists the contents of a group.
// This follows Interface Segregation Principle - small, focused interface.
type GroupClient interface {
	// GetGroupProjects returns every project directly owned by the group.
	GetGroupProjects(ctx context.Context, groupID int) ([]domain.Project, error)

	// GetSubgroups returns every direct subgroup of the group.
	GetSubgroups(ctx context.Context, groupID int) ([]domain.Group, error)
}

// DeliveryClient retrieves the delivery telemetry of a single project.
type DeliveryClient interface {
	// GetDeployments returns deployments created within the window.
	GetDeployments(ctx context.Context, projectID int, window domain.Window) ([]domain.Deployment, error)

	// GetPipelines returns pipelines updated within the window.
	GetPipelines(ctx context.Context, projectID int, window domain.Window) ([]domain.Pipeline, error)

	// GetPipelineJobs returns the jobs of a pipeline.
	GetPipelineJobs(ctx context.Context, projectID, pipelineID int) ([]domain.Job, error)
}

// Client combines group and delivery operations.
// Consumers depend on this interface, not concrete implementations.
type Client interface {
	GroupClient
	DeliveryClient
}

// AuthMode selects how the credential is sent to the API.
type AuthMode string

const (
	// AuthPrivateToken sends the token in the PRIVATE-TOKEN header.
	AuthPrivateToken AuthMode = "private-token"
	// AuthBearer sends the token as an OAuth2 bearer token.
	AuthBearer AuthMode = "bearer"
)

// Valid reports whether m is a supported auth mode.
func (m AuthMode) Valid() bool {
	return m == AuthPrivateToken || m == AuthBearer
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL  string
	Token    string
	AuthMode AuthMode
}
