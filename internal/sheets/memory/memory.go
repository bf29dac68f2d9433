// Package memory provides an in-process WeekExporter used by tests and by
// local runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"cashout/internal/core"
	ports "cashout/internal/sheets"
)

type Exporter struct {
	mu    sync.Mutex
	weeks map[string]core.Week
}

var _ ports.WeekExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{weeks: make(map[string]core.Week)}
}

// ExportWeek records the week under its company and id. Re-exporting the
// same week replaces the previous copy, matching the spreadsheet adapter.
func (e *Exporter) ExportWeek(_ context.Context, companyName string, week core.Week) error {
	if err := week.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.weeks[exportKey(companyName, week.WeekID)] = week.Clone()
	return nil
}

// Exported returns the last exported copy of the week, if any.
func (e *Exporter) Exported(companyName string, id core.WeekID) (core.Week, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.weeks[exportKey(companyName, id)]
	if !ok {
		return core.Week{}, false
	}
	return w.Clone(), true
}

// Len reports how many distinct weeks have been exported.
func (e *Exporter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.weeks)
}

func exportKey(companyName string, id core.WeekID) string {
	return fmt.Sprintf("%s/%s", companyName, id)
}
