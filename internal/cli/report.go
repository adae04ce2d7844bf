package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vilaca/dora-metrics/internal/api"
	"github.com/vilaca/dora-metrics/internal/api/gitlab"
	"github.com/vilaca/dora-metrics/internal/config"
	"github.com/vilaca/dora-metrics/internal/domain"
	"github.com/vilaca/dora-metrics/internal/report"
	"github.com/vilaca/dora-metrics/internal/service"
	"github.com/vilaca/dora-metrics/internal/timeparse"
)

type reportOptions struct {
	configPath string
	gitlabURL  string
	token      string
	authMode   string
	groupID    int
	projectIDs []int
	start      string
	end        string
	days       int
	timeout    int
	outputDir  string
	csv        bool
	print      bool
	verbose    bool
}

func newReportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute daily and monthly DORA metrics",
		Long: `Report walks the group (or takes the given projects), computes the DORA metrics
of each project over the window and prints a daily and a monthly table.

The window defaults to the last 30 days ending now. --start and --end accept
2024-01-15, 2024-01-15T10:00:00Z or 2024-01-15T10:00:00.123Z.

Both tables are also written as CSV to --output-dir:
  daily_dora_metrics.csv
  monthly_dora_metrics.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	f.StringVar(&opts.gitlabURL, "gitlab-url", "", "GitLab base URL (env GITLAB_URL)")
	f.StringVar(&opts.token, "token", "", "GitLab access token (env GITLAB_TOKEN)")
	f.StringVar(&opts.authMode, "auth-mode", "", "credential header: private-token or bearer (env GITLAB_AUTH_MODE)")
	f.IntVar(&opts.groupID, "group", 0, "group ID to walk recursively (env GITLAB_GROUP_ID)")
	f.IntSliceVar(&opts.projectIDs, "project", nil, "project IDs to report on instead of walking a group (env GITLAB_PROJECT_IDS)")
	f.StringVar(&opts.start, "start", "", "window start (default: --days before --end)")
	f.StringVar(&opts.end, "end", "", "window end, a plain date means the end of that day (default: now)")
	f.IntVar(&opts.days, "days", 0, "window length in days when --start is not given (default 30)")
	f.IntVar(&opts.timeout, "timeout", 0, "per-request timeout in seconds (env GITLAB_TIMEOUT_SECONDS, default 30)")
	f.StringVar(&opts.outputDir, "output-dir", "", "directory for CSV files (env DORA_OUTPUT_DIR, default .)")
	f.BoolVar(&opts.csv, "csv", true, "write CSV files")
	f.BoolVar(&opts.print, "print", true, "print tables to stdout")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "human-readable debug logging")

	return cmd
}

func runReport(cmd *cobra.Command, opts *reportOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return NewCLIError("failed to load configuration", "Check --config and the GITLAB_* environment variables", err)
	}
	applyFlags(cmd, opts, cfg)

	if err := cfg.Validate(); err != nil {
		return NewCLIError("invalid configuration", "Run 'dora-metrics report --help' for the available settings", err)
	}

	window, err := resolveWindow(opts.start, opts.end, cfg.Days, time.Now())
	if err != nil {
		return NewCLIError("invalid window", "Use --start/--end like 2024-01-15 or 2024-01-15T10:00:00Z", err)
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()

	// Wire up dependencies (Dependency Injection / IoC)
	clientConfig := cfg.ClientConfig()
	httpClient := api.NewHTTPClient(ctx, clientConfig, cfg.Timeout())
	client := gitlab.NewClient(clientConfig, httpClient)
	reportService := service.NewReportService(client, logger)

	logger.Info("starting report",
		zap.String("gitlab_url", cfg.GitLabURL),
		zap.String("auth_mode", cfg.AuthMode),
		zap.Int("group_id", cfg.GroupID),
		zap.Ints("project_ids", cfg.ProjectIDs),
		zap.String("start", timeparse.Format(window.Start)),
		zap.String("end", timeparse.Format(window.End)))

	var reports *service.Reports
	if len(cfg.ProjectIDs) > 0 {
		reports, err = reportService.GenerateProjectReports(ctx, cfg.ProjectIDs, window)
	} else {
		reports, err = reportService.GenerateReports(ctx, cfg.GroupID, window)
	}
	if err != nil {
		return err
	}

	if opts.print {
		out := cmd.OutOrStdout()
		renderer := report.NewConsoleRenderer()
		if err := renderer.Render(out, "Daily Metrics", reports.Daily); err != nil {
			return err
		}
		fmt.Fprintln(out)
		if err := renderer.Render(out, "Monthly Metrics", reports.Monthly); err != nil {
			return err
		}
	}

	if opts.csv {
		paths, err := report.ExportCSV(cfg.OutputDir, reports.Daily, reports.Monthly)
		if err != nil {
			return NewCLIError("failed to write CSV files", "Check that --output-dir is writable", err)
		}
		logger.Info("wrote CSV files", zap.Strings("paths", paths))
	}

	return nil
}

// applyFlags overrides configuration with the flags set on the command line.
func applyFlags(cmd *cobra.Command, opts *reportOptions, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("gitlab-url") {
		cfg.GitLabURL = opts.gitlabURL
	}
	if f.Changed("token") {
		cfg.GitLabToken = opts.token
	}
	if f.Changed("auth-mode") {
		cfg.AuthMode = opts.authMode
	}
	if f.Changed("group") {
		cfg.GroupID = opts.groupID
	}
	if f.Changed("project") {
		cfg.ProjectIDs = opts.projectIDs
	}
	if f.Changed("days") {
		cfg.Days = opts.days
	}
	if f.Changed("timeout") {
		cfg.TimeoutSeconds = opts.timeout
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
}

// resolveWindow turns the --start/--end flags into a window. A missing end
// is now, a missing start is days before the end.
func resolveWindow(start, end string, days int, now time.Time) (domain.Window, error) {
	window := domain.Window{End: now.UTC().Truncate(time.Second)}

	if end != "" {
		t, err := parseBound(end, true)
		if err != nil {
			return domain.Window{}, fmt.Errorf("--end: %w", err)
		}
		window.End = t
	}

	if start != "" {
		t, err := parseBound(start, false)
		if err != nil {
			return domain.Window{}, fmt.Errorf("--start: %w", err)
		}
		window.Start = t
	} else {
		window.Start = domain.NewWindow(window.End, days).Start
	}

	if window.End.Before(window.Start) {
		return domain.Window{}, fmt.Errorf("end %s is before start %s", timeparse.Format(window.End), timeparse.Format(window.Start))
	}

	return window, nil
}

// parseBound accepts API timestamps and, for convenience, plain dates.
// A plain date used as an end bound covers the whole day, up to its last second.
func parseBound(s string, endOfDay bool) (time.Time, error) {
	if t, err := timeparse.Parse(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, &timeparse.DateFormatError{Text: s}
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return t, nil
}
