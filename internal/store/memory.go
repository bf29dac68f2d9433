package store

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"cashout/internal/core"
	"cashout/internal/session"
)

// Memory is the in-memory backend used for development and tests. It clones
// documents on the way in and out so callers cannot mutate stored state
// behind the store's back.
type Memory struct {
	mu      sync.RWMutex
	ledgers map[string]map[core.WeekID]core.Week
	rosters map[string][]string
	configs map[string]map[string]any
	tenants map[string]Tenant
	users   map[string]User // keyed by email

	now func() time.Time
}

var (
	_ LedgerStore  = (*Memory)(nil)
	_ AccountStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		ledgers: map[string]map[core.WeekID]core.Week{},
		rosters: map[string][]string{},
		configs: map[string]map[string]any{},
		tenants: map[string]Tenant{},
		users:   map[string]User{},
		now:     time.Now,
	}
}

// SetClock overrides the save timestamp source. Tests use this to assert the
// store, not the caller, owns LastUpdated.
func (m *Memory) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Memory) SaveLedger(_ context.Context, sess *session.Session, week core.Week) error {
	if err := sess.RequireTenant(); err != nil {
		return err
	}
	if err := week.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := week.Clone()
	stored.LastUpdated = m.now()
	byWeek, ok := m.ledgers[sess.TenantID]
	if !ok {
		byWeek = map[core.WeekID]core.Week{}
		m.ledgers[sess.TenantID] = byWeek
	}
	byWeek[week.WeekID] = stored
	return nil
}

func (m *Memory) GetLedger(_ context.Context, sess *session.Session, id core.WeekID) (core.Week, error) {
	if err := sess.RequireTenant(); err != nil {
		return core.Week{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	week, ok := m.ledgers[sess.TenantID][id]
	if !ok {
		return core.Week{}, ErrLedgerNotFound
	}
	return week.Clone(), nil
}

func (m *Memory) ListLedgerIDs(_ context.Context, sess *session.Session) ([]core.WeekID, error) {
	if err := sess.RequireTenant(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]core.WeekID, 0, len(m.ledgers[sess.TenantID]))
	for id := range m.ledgers[sess.TenantID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids, nil
}

func (m *Memory) GetRoster(_ context.Context, sess *session.Session) ([]string, error) {
	if err := sess.RequireTenant(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names, ok := m.rosters[sess.TenantID]
	if !ok {
		return nil, ErrRosterNotFound
	}
	return append([]string(nil), names...), nil
}

func (m *Memory) SaveRoster(_ context.Context, sess *session.Session, names []string) error {
	if err := sess.RequireTenant(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosters[sess.TenantID] = append([]string(nil), names...)
	return nil
}

func (m *Memory) GetConfig(_ context.Context, sess *session.Session) (map[string]any, error) {
	if err := sess.RequireTenant(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[sess.TenantID]
	if !ok {
		return nil, ErrConfigNotFound
	}
	return maps.Clone(cfg), nil
}

func (m *Memory) SaveConfig(_ context.Context, sess *session.Session, cfg map[string]any) error {
	if err := sess.RequireTenant(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[sess.TenantID] = maps.Clone(cfg)
	return nil
}

func (m *Memory) CreateTenant(_ context.Context, t Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[t.ID] = t
	return nil
}

func (m *Memory) GetTenant(_ context.Context, id string) (Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tenants[id]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	return t, nil
}

func (m *Memory) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return ErrUserExists
	}
	m.users[u.Email] = u
	return nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}
