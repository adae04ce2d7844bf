package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCmd builds the base command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "dora-metrics",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
		Short:   "Compute DORA metrics for the projects of a GitLab group",
		Long: `dora-metrics reads deployments, pipelines and jobs from the GitLab API and
derives the four DORA metrics for every project of a group and its subgroups:

  deployment frequency     deployments per day
  lead time for changes    mean successful pipeline duration, hours
  change failure rate      failed jobs per pipeline, ratio
  mean time to restore     mean "restore" job duration, hours`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newReportCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
// This is called by main.main().
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		return printError(root.ErrOrStderr(), err)
	}
	return 0
}
