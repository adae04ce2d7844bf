package domain

const (
	// RestoreJobName is the CI job name that marks a service restoration.
	RestoreJobName = "restore"

	// DateLayout is the calendar date layout used in reports.
	DateLayout = "2006-01-02"
	// MonthLayout is the calendar month layout used by the monthly rollup.
	MonthLayout = "2006-01"
)
