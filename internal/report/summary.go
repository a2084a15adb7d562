package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/framehq/frame/internal/billing"
)

func roundCents(cents float64) int64 {
	return int64(math.Round(cents))
}

// ProjectRow is one project's financial summary prepared for export.
type ProjectRow struct {
	ProjectName string
	ClientName  string
	Financials  billing.Financials
}

var summaryHeader = []string{
	"Project",
	"Client",
	"Hours",
	"Cost",
	"Revenue",
	"Margin",
	"Margin %",
	"Effective Rate",
	"Budget Health",
}

// WriteProjectSummaryCSV streams project financial rows as CSV, with
// money columns formatted for humans.
func WriteProjectSummaryCSV(w io.Writer, rows []ProjectRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, row := range rows {
		fin := row.Financials
		health := ""
		if fin.HasBudget {
			health = string(fin.Health)
		}
		record := []string{
			row.ProjectName,
			row.ClientName,
			FormatHours(fin.BurnHours),
			FormatCents(roundCents(fin.TotalCostCents)),
			FormatCents(roundCents(fin.TotalRevenueCents)),
			FormatCents(roundCents(fin.GrossMarginCents)),
			fmt.Sprintf("%.1f%%", fin.GrossMarginPercent),
			FormatCents(roundCents(fin.EffectiveHourlyRate)),
			health,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
