// Package services orchestrates ledger operations across the store, the
// event queue and user notifications.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cashout/internal/amqp"
	"cashout/internal/cache"
	"cashout/internal/core"
	"cashout/internal/notify"
	"cashout/internal/session"
	"cashout/internal/store"
)

// DefaultRoster seeds a tenant that has never saved a roster.
var DefaultRoster = []string{"User 1", "User 2"}

// WeekSavedPublisher is the outbound event hook. *amqp.Client satisfies it;
// a nil publisher means events are skipped, not failed.
type WeekSavedPublisher interface {
	PublishWeekSaved(ctx context.Context, msg *amqp.WeekSavedMessage) error
}

// WeekListEntry pairs a stored week id with its human-readable date range.
type WeekListEntry struct {
	ID    core.WeekID `json:"weekId"`
	Label string      `json:"label"`
}

// LedgerService orchestrates week open/save, roster and config operations.
// Saves go to the store first; the export event and the notification are
// both best-effort and never fail a completed save.
type LedgerService struct {
	store     store.LedgerStore
	publisher WeekSavedPublisher
	notifier  notify.Notifier
	weeks     *cache.Cache[core.Week]
}

func NewLedgerService(st store.LedgerStore, publisher WeekSavedPublisher, notifier notify.Notifier) *LedgerService {
	if notifier == nil {
		notifier = notify.Slog{}
	}
	return &LedgerService{
		store:     st,
		publisher: publisher,
		notifier:  notifier,
	}
}

// UseWeekCache puts a read cache in front of OpenWeek. Saved weeks
// invalidate their entry so a following open never serves a stale document.
func (s *LedgerService) UseWeekCache(c *cache.Cache[core.Week]) {
	s.weeks = c
}

// OpenWeek returns the stored ledger for the id, or a freshly generated
// empty week when nothing is stored yet. A store failure other than
// not-found surfaces once and yields no week.
func (s *LedgerService) OpenWeek(ctx context.Context, sess *session.Session, id core.WeekID) (core.Week, error) {
	if err := sess.RequireTenant(); err != nil {
		return core.Week{}, fmt.Errorf("open week %s: %w", id, err)
	}

	key := cacheKey(sess.TenantID, id)
	if s.weeks != nil {
		if week, ok := s.weeks.Get(key); ok {
			return week.Clone(), nil
		}
	}

	week, err := s.store.GetLedger(ctx, sess, id)
	if err == nil {
		if s.weeks != nil {
			s.weeks.Put(key, week.Clone())
		}
		return week, nil
	}
	if errors.Is(err, store.ErrLedgerNotFound) {
		return core.GenerateWeek(id)
	}
	s.notifier.Notify("Error loading week", notify.Error)
	return core.Week{}, fmt.Errorf("open week %s: %w", id, err)
}

// SaveWeek persists the full document and, on success, enqueues an export
// event and notifies the user. Publish failures are logged, never returned.
func (s *LedgerService) SaveWeek(ctx context.Context, sess *session.Session, week core.Week) error {
	if err := s.store.SaveLedger(ctx, sess, week); err != nil {
		s.notifier.Notify("Error saving week", notify.Error)
		return fmt.Errorf("save week %s: %w", week.WeekID, err)
	}

	if s.weeks != nil {
		s.weeks.Invalidate(cacheKey(sess.TenantID, week.WeekID))
	}

	if err := s.publishWeekSaved(ctx, sess.TenantID, week.WeekID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish week saved event",
			"tenant_id", sess.TenantID,
			"week_id", week.WeekID,
			"error", err)
		// Don't fail the request, the ledger is saved locally.
	}

	s.notifier.Notify("Week data saved successfully!", notify.Success)
	return nil
}

// ListWeeks returns the tenant's saved weeks, most recent first, with their
// date-range labels.
func (s *LedgerService) ListWeeks(ctx context.Context, sess *session.Session) ([]WeekListEntry, error) {
	ids, err := s.store.ListLedgerIDs(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	entries := make([]WeekListEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, WeekListEntry{ID: id, Label: core.RangeLabel(string(id))})
	}
	return entries, nil
}

// Roster returns the tenant's saved roster, or the default seed roster for
// a tenant that has never saved one.
func (s *LedgerService) Roster(ctx context.Context, sess *session.Session) ([]string, error) {
	names, err := s.store.GetRoster(ctx, sess)
	if err != nil {
		if errors.Is(err, store.ErrRosterNotFound) {
			return append([]string(nil), DefaultRoster...), nil
		}
		return nil, fmt.Errorf("get roster: %w", err)
	}
	return names, nil
}

func (s *LedgerService) SaveRoster(ctx context.Context, sess *session.Session, names []string) error {
	if err := s.store.SaveRoster(ctx, sess, names); err != nil {
		s.notifier.Notify("Error saving roster", notify.Error)
		return fmt.Errorf("save roster: %w", err)
	}
	s.notifier.Notify("Roster saved", notify.Success)
	return nil
}

// WeekNames merges the active roster with every name appearing in the week,
// for the name picker.
func (s *LedgerService) WeekNames(ctx context.Context, sess *session.Session, week core.Week) ([]string, error) {
	roster, err := s.Roster(ctx, sess)
	if err != nil {
		return nil, err
	}
	return core.MergeNames(roster, &week), nil
}

// Config returns the tenant's config document, or an empty one when nothing
// is stored yet.
func (s *LedgerService) Config(ctx context.Context, sess *session.Session) (map[string]any, error) {
	cfg, err := s.store.GetConfig(ctx, sess)
	if err != nil {
		if errors.Is(err, store.ErrConfigNotFound) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("get config: %w", err)
	}
	return cfg, nil
}

func (s *LedgerService) SaveConfig(ctx context.Context, sess *session.Session, cfg map[string]any) error {
	if err := s.store.SaveConfig(ctx, sess, cfg); err != nil {
		s.notifier.Notify("Error saving settings", notify.Error)
		return fmt.Errorf("save config: %w", err)
	}
	s.notifier.Notify("Settings saved", notify.Success)
	return nil
}

func cacheKey(tenantID string, id core.WeekID) string {
	return tenantID + "/" + string(id)
}

func (s *LedgerService) publishWeekSaved(ctx context.Context, tenantID string, weekID core.WeekID) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping week saved event")
		return nil
	}
	return s.publisher.PublishWeekSaved(ctx, amqp.NewWeekSavedMessage(tenantID, weekID))
}
