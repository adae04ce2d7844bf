package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vilaca/dora-metrics/internal/domain"
)

// ConsoleRenderer implements Renderer as a bordered terminal table.
type ConsoleRenderer struct {
	titleStyle  lipgloss.Style
	headerStyle lipgloss.Style
	cellStyle   lipgloss.Style
}

// NewConsoleRenderer creates a new console renderer.
func NewConsoleRenderer() *ConsoleRenderer {
	return &ConsoleRenderer{
		titleStyle:  lipgloss.NewStyle().Bold(true),
		headerStyle: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		cellStyle:   lipgloss.NewStyle().Padding(0, 1),
	}
}

func (r *ConsoleRenderer) Render(w io.Writer, title string, t domain.ReportTable) error {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = rowValues(t, row, formatConsole)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.headerStyle
			}
			return r.cellStyle
		})

	if _, err := fmt.Fprintln(w, r.titleStyle.Render(title+":")); err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(no projects)")
		return err
	}
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

func formatConsole(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
