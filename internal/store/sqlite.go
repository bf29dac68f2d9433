package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cashout/internal/core"
	"cashout/internal/session"

	_ "modernc.org/sqlite"
)

// SQLite persists documents in a SQLite database: one JSON document per
// ledger/roster/config row, keyed by tenant. Cell values are normalized into
// the tagged union when the document is decoded, so mixed number/string
// cells from older clients are accepted here and nowhere else.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ LedgerStore  = (*SQLite)(nil)
	_ AccountStore = (*SQLite)(nil)
)

func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping backs the readiness probe.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SetClock overrides the save timestamp source, for tests.
func (s *SQLite) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SQLite) SaveLedger(ctx context.Context, sess *session.Session, week core.Week) error {
	if err := sess.RequireTenant(); err != nil {
		return err
	}
	if err := week.Validate(); err != nil {
		return err
	}

	stamped := week
	stamped.LastUpdated = s.now().UTC()
	doc, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledgers (tenant_id, week_id, doc, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tenant_id, week_id)
		DO UPDATE SET doc = excluded.doc, last_updated = excluded.last_updated`,
		sess.TenantID, string(week.WeekID), string(doc), stamped.LastUpdated)
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger saved",
		"tenant_id", sess.TenantID,
		"week_id", week.WeekID)
	return nil
}

func (s *SQLite) GetLedger(ctx context.Context, sess *session.Session, id core.WeekID) (core.Week, error) {
	if err := sess.RequireTenant(); err != nil {
		return core.Week{}, err
	}

	var doc string
	var lastUpdated time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT doc, last_updated FROM ledgers
		WHERE tenant_id = ? AND week_id = ?`,
		sess.TenantID, string(id)).Scan(&doc, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Week{}, ErrLedgerNotFound
	}
	if err != nil {
		return core.Week{}, fmt.Errorf("get ledger: %w", err)
	}

	var week core.Week
	if err := json.Unmarshal([]byte(doc), &week); err != nil {
		return core.Week{}, fmt.Errorf("decode ledger %s: %w", id, err)
	}
	// The column is authoritative for the timestamp.
	week.LastUpdated = lastUpdated
	return week, nil
}

func (s *SQLite) ListLedgerIDs(ctx context.Context, sess *session.Session) ([]core.WeekID, error) {
	if err := sess.RequireTenant(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT week_id FROM ledgers
		WHERE tenant_id = ?
		ORDER BY week_id DESC`,
		sess.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	defer rows.Close()

	var ids []core.WeekID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan week id: %w", err)
		}
		ids = append(ids, core.WeekID(id))
	}
	return ids, rows.Err()
}

func (s *SQLite) GetRoster(ctx context.Context, sess *session.Session) ([]string, error) {
	doc, err := s.getDoc(ctx, sess, "rosters", ErrRosterNotFound)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal([]byte(doc), &names); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return names, nil
}

func (s *SQLite) SaveRoster(ctx context.Context, sess *session.Session, names []string) error {
	if names == nil {
		names = []string{}
	}
	doc, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}
	return s.saveDoc(ctx, sess, "rosters", string(doc))
}

func (s *SQLite) GetConfig(ctx context.Context, sess *session.Session) (map[string]any, error) {
	doc, err := s.getDoc(ctx, sess, "configs", ErrConfigNotFound)
	if err != nil {
		return nil, err
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (s *SQLite) SaveConfig(ctx context.Context, sess *session.Session, cfg map[string]any) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return s.saveDoc(ctx, sess, "configs", string(doc))
}

// getDoc and saveDoc cover the two single-document-per-tenant tables, which
// share the same (tenant_id, doc) shape.
func (s *SQLite) getDoc(ctx context.Context, sess *session.Session, table string, absent error) (string, error) {
	if err := sess.RequireTenant(); err != nil {
		return "", err
	}
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM `+table+` WHERE tenant_id = ?`,
		sess.TenantID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", absent
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", table, err)
	}
	return doc, nil
}

func (s *SQLite) saveDoc(ctx context.Context, sess *session.Session, table, doc string) error {
	if err := sess.RequireTenant(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+table+` (tenant_id, doc) VALUES (?, ?)
		ON CONFLICT (tenant_id) DO UPDATE SET doc = excluded.doc`,
		sess.TenantID, doc)
	if err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	return nil
}

func (s *SQLite) CreateTenant(ctx context.Context, t Tenant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenants (id, name, owner_id, created_at)
		VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.OwnerID, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *SQLite) GetTenant(ctx context.Context, id string) (Tenant, error) {
	var t Tenant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at FROM tenants WHERE id = ?`,
		id).Scan(&t.ID, &t.Name, &t.OwnerID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, ErrTenantNotFound
	}
	if err != nil {
		return Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

func (s *SQLite) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, tenant_id, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.TenantID, u.Role, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, tenant_id, role, password_hash, created_at
		FROM users WHERE email = ?`,
		email).Scan(&u.ID, &u.Email, &u.TenantID, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
