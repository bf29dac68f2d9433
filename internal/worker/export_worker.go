// Package worker consumes week-saved events and exports the saved ledgers
// to the configured spreadsheet backend.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cashout/internal/amqp"
	"cashout/internal/session"
	"cashout/internal/sheets"
	"cashout/internal/store"
)

// ExportWorker turns a week-saved event into a spreadsheet export. The event
// carries only keys; the worker re-reads the ledger so it always exports the
// latest saved state.
type ExportWorker struct {
	ledgers  store.LedgerStore
	accounts store.AccountStore
	exporter sheets.WeekExporter
}

func NewExportWorker(ledgers store.LedgerStore, accounts store.AccountStore, exporter sheets.WeekExporter) *ExportWorker {
	return &ExportWorker{
		ledgers:  ledgers,
		accounts: accounts,
		exporter: exporter,
	}
}

// HandleWeekSaved processes a single week-saved message. A missing ledger is
// dropped rather than retried: the event is stale and requeueing it would
// loop forever.
func (w *ExportWorker) HandleWeekSaved(ctx context.Context, msg *amqp.WeekSavedMessage) error {
	slog.InfoContext(ctx, "Processing week saved message",
		"tenant_id", msg.TenantID,
		"week_id", msg.WeekID)

	sess := &session.Session{TenantID: msg.TenantID}
	week, err := w.ledgers.GetLedger(ctx, sess, msg.WeekID)
	if err != nil {
		if errors.Is(err, store.ErrLedgerNotFound) {
			slog.WarnContext(ctx, "Ledger gone before export, dropping event",
				"tenant_id", msg.TenantID,
				"week_id", msg.WeekID)
			return nil
		}
		return fmt.Errorf("get ledger: %w", err)
	}

	companyName := w.companyName(ctx, msg.TenantID)

	if err := w.exporter.ExportWeek(ctx, companyName, week); err != nil {
		return fmt.Errorf("export week: %w", err)
	}

	slog.InfoContext(ctx, "Week exported",
		"tenant_id", msg.TenantID,
		"week_id", msg.WeekID,
		"company", companyName)
	return nil
}

// companyName resolves the tenant's display name, falling back to the raw
// tenant id when the account record is missing.
func (w *ExportWorker) companyName(ctx context.Context, tenantID string) string {
	tenant, err := w.accounts.GetTenant(ctx, tenantID)
	if err != nil {
		slog.WarnContext(ctx, "Tenant lookup failed, using id as company name",
			"tenant_id", tenantID,
			"error", err)
		return tenantID
	}
	return tenant.Name
}
