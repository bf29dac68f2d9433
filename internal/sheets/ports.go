// Package sheets defines the outbound port for exporting saved week ledgers
// to a spreadsheet, plus the adapters that implement it.
package sheets

import (
	"context"

	"cashout/internal/core"
)

// WeekExporter writes a day-per-row summary of a saved week to an external
// spreadsheet. Exports are idempotent: re-exporting the same week replaces
// its rows.
type WeekExporter interface {
	ExportWeek(ctx context.Context, companyName string, week core.Week) error
}
