package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vilaca/dora-metrics/internal/api"
	"github.com/vilaca/dora-metrics/internal/domain"
)

// MetricsCalculator derives the four DORA metrics of a project.
type MetricsCalculator struct {
	client api.DeliveryClient
	logger *zap.Logger
}

// NewMetricsCalculator creates a new metrics calculator.
func NewMetricsCalculator(client api.DeliveryClient, logger *zap.Logger) *MetricsCalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsCalculator{
		client: client,
		logger: logger,
	}
}

// Compute fetches the deployments and pipelines of a project within the window,
// plus the jobs of every successful pipeline, and derives its metrics.
// Nothing is cached between calls.
func (c *MetricsCalculator) Compute(ctx context.Context, projectID int, window domain.Window) (domain.MetricResult, error) {
	deployments, err := c.client.GetDeployments(ctx, projectID, window)
	if err != nil {
		return domain.MetricResult{}, err
	}

	pipelines, err := c.client.GetPipelines(ctx, projectID, window)
	if err != nil {
		return domain.MetricResult{}, err
	}

	var t tally
	for _, pipeline := range pipelines {
		if pipeline.Status != domain.StatusSuccess {
			continue
		}

		jobs, err := c.client.GetPipelineJobs(ctx, projectID, pipeline.ID)
		if err != nil {
			return domain.MetricResult{}, err
		}

		if err := t.addSuccessfulPipeline(pipeline, jobs); err != nil {
			return domain.MetricResult{}, fmt.Errorf("pipeline %d: %w", pipeline.ID, err)
		}
	}

	result := t.result(window, len(deployments), len(pipelines))

	c.logger.Debug("computed metrics",
		zap.Int("project_id", projectID),
		zap.Int("deployments", len(deployments)),
		zap.Int("pipelines", len(pipelines)),
		zap.Int("successful_pipelines", len(t.leadTimes)),
		zap.Int("failed_jobs", t.failedJobs),
		zap.Int("restores", len(t.restoreTimes)))

	return result, nil
}

// tally accumulates the per-pipeline figures metrics are derived from.
type tally struct {
	leadTimes    []float64 // hours
	failedJobs   int
	restoreTimes []float64 // hours
}

// addSuccessfulPipeline records the lead time of a successful pipeline and
// inspects its jobs. Failures are counted per job, not per pipeline. Only the
// timestamps of the pipeline itself and of its restore jobs are parsed.
func (t *tally) addSuccessfulPipeline(pipeline domain.Pipeline, jobs []domain.Job) error {
	leadTime, err := pipeline.Duration()
	if err != nil {
		return err
	}
	t.leadTimes = append(t.leadTimes, leadTime.Hours())

	for _, job := range jobs {
		if job.Status == domain.StatusFailed {
			t.failedJobs++
		}

		if !job.IsRestore() {
			continue
		}
		restoreTime, err := job.Duration()
		if err != nil {
			return fmt.Errorf("restore job %d: %w", job.ID, err)
		}
		t.restoreTimes = append(t.restoreTimes, restoreTime.Hours())
	}

	return nil
}

func (t *tally) result(window domain.Window, deployments, pipelines int) domain.MetricResult {
	var result domain.MetricResult

	if days := window.DayCount(); days > 0 {
		result.DeploymentFrequency = float64(deployments) / float64(days)
	}

	result.LeadTimeForChanges = mean(t.leadTimes)

	if pipelines > 0 {
		result.ChangeFailureRate = float64(t.failedJobs) / float64(pipelines)
	}

	result.MeanTimeToRestore = mean(t.restoreTimes)

	return result
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
