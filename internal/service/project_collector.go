package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vilaca/dora-metrics/internal/api"
	"github.com/vilaca/dora-metrics/internal/domain"
)

// ProjectCollector enumerates every project under a group and its subgroups.
// Follows Single Responsibility Principle - only walks the group hierarchy.
type ProjectCollector struct {
	client api.GroupClient
	logger *zap.Logger
}

// NewProjectCollector creates a new project collector.
func NewProjectCollector(client api.GroupClient, logger *zap.Logger) *ProjectCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectCollector{
		client: client,
		logger: logger,
	}
}

// walk holds the state of a single CollectProjects call.
type walk struct {
	visitedGroups map[int]bool
	seenProjects  map[int]bool
	projects      []domain.Project
}

// CollectProjects returns the projects of groupID and, depth-first, of all its
// subgroups. A group reached twice is walked once, so the result holds no
// duplicates and a cyclic hierarchy still terminates.
func (c *ProjectCollector) CollectProjects(ctx context.Context, groupID int) ([]domain.Project, error) {
	w := &walk{
		visitedGroups: make(map[int]bool),
		seenProjects:  make(map[int]bool),
	}

	if err := c.visit(ctx, w, groupID, 0); err != nil {
		return nil, err
	}

	c.logger.Info("collected projects",
		zap.Int("group_id", groupID),
		zap.Int("groups", len(w.visitedGroups)),
		zap.Int("projects", len(w.projects)))

	return w.projects, nil
}

func (c *ProjectCollector) visit(ctx context.Context, w *walk, groupID, depth int) error {
	if w.visitedGroups[groupID] {
		c.logger.Warn("group already visited, skipping", zap.Int("group_id", groupID))
		return nil
	}
	w.visitedGroups[groupID] = true

	if err := ctx.Err(); err != nil {
		return err
	}

	projects, err := c.client.GetGroupProjects(ctx, groupID)
	if err != nil {
		return fmt.Errorf("collect group %d: %w", groupID, err)
	}
	for _, p := range projects {
		if w.seenProjects[p.ID] {
			continue
		}
		w.seenProjects[p.ID] = true
		w.projects = append(w.projects, p)
	}

	subgroups, err := c.client.GetSubgroups(ctx, groupID)
	if err != nil {
		return fmt.Errorf("collect group %d: %w", groupID, err)
	}

	c.logger.Debug("visited group",
		zap.Int("group_id", groupID),
		zap.Int("depth", depth),
		zap.Int("projects", len(projects)),
		zap.Int("subgroups", len(subgroups)))

	for _, sg := range subgroups {
		if err := c.visit(ctx, w, sg.ID, depth+1); err != nil {
			return err
		}
	}

	return nil
}
