package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vilaca/dora-metrics/internal/api"
	"github.com/vilaca/dora-metrics/internal/domain"
)

// ReportService runs the metrics calculation over a set of projects.
// Follows Single Responsibility Principle - orchestrates collection and calculation.
type ReportService struct {
	collector  *ProjectCollector
	calculator *MetricsCalculator
	logger     *zap.Logger
}

// Reports bundles the outputs of a full group run.
type Reports struct {
	Projects []domain.Project
	Daily    domain.ReportTable
	Monthly  domain.ReportTable
}

// NewReportService creates a new report service.
func NewReportService(client api.Client, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		collector:  NewProjectCollector(client, logger),
		calculator: NewMetricsCalculator(client, logger),
		logger:     logger,
	}
}

// Aggregate computes metrics for each project in order. Every row is dated
// with the calendar day of the window end. The first failure aborts the batch.
func (s *ReportService) Aggregate(ctx context.Context, projectIDs []int, window domain.Window) (domain.ReportTable, error) {
	table := domain.ReportTable{
		Period: domain.DateLayout,
		Rows:   make([]domain.ReportRow, 0, len(projectIDs)),
	}
	date := reportDate(window.End)

	for i, projectID := range projectIDs {
		s.logger.Debug("computing project metrics",
			zap.Int("project_id", projectID),
			zap.Int("index", i),
			zap.Int("total", len(projectIDs)))

		result, err := s.calculator.Compute(ctx, projectID, window)
		if err != nil {
			return domain.ReportTable{}, fmt.Errorf("project %d: %w", projectID, err)
		}

		table.Rows = append(table.Rows, domain.ReportRow{
			ProjectID:    projectID,
			Date:         date,
			MetricResult: result,
		})
	}

	return table, nil
}

// GenerateReports collects every project under groupID, aggregates their
// metrics and rolls the result up by month.
func (s *ReportService) GenerateReports(ctx context.Context, groupID int, window domain.Window) (*Reports, error) {
	projects, err := s.collector.CollectProjects(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect projects: %w", err)
	}

	reports, err := s.GenerateProjectReports(ctx, ProjectIDs(projects), window)
	if err != nil {
		return nil, err
	}
	reports.Projects = projects

	return reports, nil
}

// GenerateProjectReports aggregates the given projects and rolls the result up by month.
func (s *ReportService) GenerateProjectReports(ctx context.Context, projectIDs []int, window domain.Window) (*Reports, error) {
	daily, err := s.Aggregate(ctx, projectIDs, window)
	if err != nil {
		return nil, err
	}

	s.logger.Info("aggregated metrics",
		zap.Int("projects", len(projectIDs)),
		zap.Time("start", window.Start),
		zap.Time("end", window.End))

	return &Reports{
		Daily:   daily,
		Monthly: daily.Monthly(),
	}, nil
}

// ProjectIDs extracts the identifiers of projects, preserving order.
func ProjectIDs(projects []domain.Project) []int {
	ids := make([]int, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}

func reportDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
