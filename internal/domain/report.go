package domain

import "time"

// ReportRow is a MetricResult stamped with its project and report date.
type ReportRow struct {
	ProjectID int
	Date      time.Time
	MetricResult
}

// ReportTable is an ordered collection of report rows.
type ReportTable struct {
	// Period is DateLayout for daily tables and MonthLayout for monthly rollups.
	Period string
	Rows   []ReportRow
}

type monthKey struct {
	projectID int
	year      int
	month     time.Month
}

type monthAccumulator struct {
	sum   MetricResult
	count int
}

// Monthly regroups the table by project and calendar month, averaging every
// metric across the rows in each group. The mean is unweighted.
// Groups keep the order in which they first appear.
func (t ReportTable) Monthly() ReportTable {
	var order []monthKey
	groups := make(map[monthKey]*monthAccumulator)

	for _, row := range t.Rows {
		key := monthKey{projectID: row.ProjectID, year: row.Date.Year(), month: row.Date.Month()}
		acc, ok := groups[key]
		if !ok {
			acc = &monthAccumulator{}
			groups[key] = acc
			order = append(order, key)
		}
		acc.sum.DeploymentFrequency += row.DeploymentFrequency
		acc.sum.LeadTimeForChanges += row.LeadTimeForChanges
		acc.sum.ChangeFailureRate += row.ChangeFailureRate
		acc.sum.MeanTimeToRestore += row.MeanTimeToRestore
		acc.count++
	}

	rows := make([]ReportRow, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		n := float64(acc.count)
		rows = append(rows, ReportRow{
			ProjectID: key.projectID,
			Date:      time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC),
			MetricResult: MetricResult{
				DeploymentFrequency: acc.sum.DeploymentFrequency / n,
				LeadTimeForChanges:  acc.sum.LeadTimeForChanges / n,
				ChangeFailureRate:   acc.sum.ChangeFailureRate / n,
				MeanTimeToRestore:   acc.sum.MeanTimeToRestore / n,
			},
		})
	}

	return ReportTable{Period: MonthLayout, Rows: rows}
}

// FormatDate renders a row date according to the table period.
func (t ReportTable) FormatDate(d time.Time) string {
	if t.Period == "" {
		return d.Format(DateLayout)
	}
	return d.Format(t.Period)
}
