package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/datasource"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for failed rows.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// GainStyle for positive returns.
	GainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// LossStyle for negative returns.
	LossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// FormatPercent formats a fraction as a signed percentage.
func FormatPercent(value float64) string {
	text := fmt.Sprintf("%+.2f%%", value*100)

	switch {
	case value > 0:
		return GainStyle.Render(text)
	case value < 0:
		return LossStyle.Render(text)
	default:
		return text
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TitleStyle.Padding(0, 1)
			}

			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func renderRunSummary(outcomes []runOutcome) string {
	t := newTable("Request", "Strategy", "Return", "Sharpe", "Max DD", "Trades", "Result")

	succeeded, rejected := 0, 0

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			label := "failed: "
			if outcome.InputError {
				label = "invalid input: "
				rejected++
			}

			t.Row(outcome.RequestPath, outcome.Strategy, "-", "-", "-", "-", ErrorStyle.Render(label+outcome.Err.Error()))

			continue
		}

		succeeded++
		t.Row(
			outcome.RequestPath,
			outcome.Strategy,
			FormatPercent(outcome.TotalReturn),
			fmt.Sprintf("%.2f", outcome.Sharpe),
			FormatPercent(outcome.MaxDrawdown),
			fmt.Sprintf("%d", outcome.Trades),
			outcome.ResultPath,
		)
	}

	summary := fmt.Sprintf("%d of %d backtests succeeded", succeeded, len(outcomes))
	if rejected > 0 {
		summary += fmt.Sprintf(", %d rejected as invalid input", rejected)
	}

	footer := HelpStyle.Render(summary)

	return lipgloss.JoinVertical(lipgloss.Left, t.Render(), footer)
}

func renderDatasets(datasets []datasource.Dataset) string {
	if len(datasets) == 0 {
		return HelpStyle.Render("No datasets found")
	}

	t := newTable("ID", "Name", "Rows", "Description")
	for _, ds := range datasets {
		t.Row(ds.ID, ds.Name, fmt.Sprintf("%d", ds.RowCount), ds.Description)
	}

	return t.Render()
}

func renderImportSummary(name string, imported importedDataset) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(fmt.Sprintf("Imported %s", name)),
		fmt.Sprintf("dataset id: %s", imported.ID),
		fmt.Sprintf("rows:       %d", imported.Rows),
		fmt.Sprintf("frequency:  %s", imported.Frequency),
	)
}
