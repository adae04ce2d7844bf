// Package report renders metric tables for people and for other tools.
package report

import (
	"io"
	"strconv"

	"github.com/vilaca/dora-metrics/internal/domain"
)

// Renderer writes a report table to w.
// This interface follows Interface Segregation Principle (SOLID-I).
type Renderer interface {
	Render(w io.Writer, title string, table domain.ReportTable) error
}

var (
	_ Renderer = (*ConsoleRenderer)(nil)
	_ Renderer = (*CSVRenderer)(nil)
)

// Columns is the header shared by every rendering of a report table.
var Columns = []string{
	"project_id",
	"date",
	"deployment_frequency",
	"lead_time_for_changes",
	"change_failure_rate",
	"mean_time_to_restore",
}

// rowValues renders a row in column order, formatting floats with format.
func rowValues(table domain.ReportTable, row domain.ReportRow, format func(float64) string) []string {
	return []string{
		strconv.Itoa(row.ProjectID),
		table.FormatDate(row.Date),
		format(row.DeploymentFrequency),
		format(row.LeadTimeForChanges),
		format(row.ChangeFailureRate),
		format(row.MeanTimeToRestore),
	}
}
