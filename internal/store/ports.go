// Package store persists tenant-scoped documents: week ledgers, the employee
// roster and free-form tenant configuration, plus the account records behind
// login. Two backends implement the same contract: an in-memory store for
// development and tests, and SQLite for real deployments.
package store

import (
	"context"
	"errors"
	"time"

	"cashout/internal/core"
	"cashout/internal/session"
)

var (
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrRosterNotFound = errors.New("roster not found")
	ErrConfigNotFound = errors.New("config not found")
	ErrTenantNotFound = errors.New("tenant not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")
)

// LedgerStore is the tenant-scoped document contract. Every operation takes
// the caller's session explicitly and fails with session.ErrNoTenant when no
// tenant is active; a save must not write anything in that case. Saves
// replace the whole document (last writer wins, no partial updates).
type LedgerStore interface {
	// SaveLedger creates or overwrites the document keyed by week.WeekID and
	// stamps LastUpdated with the store's clock.
	SaveLedger(ctx context.Context, sess *session.Session, week core.Week) error

	// GetLedger returns ErrLedgerNotFound when nothing is stored under id.
	GetLedger(ctx context.Context, sess *session.Session, id core.WeekID) (core.Week, error)

	// ListLedgerIDs returns the stored week identifiers sorted descending;
	// YYYY-Www sorts chronologically, so most recent comes first.
	ListLedgerIDs(ctx context.Context, sess *session.Session) ([]core.WeekID, error)

	GetRoster(ctx context.Context, sess *session.Session) ([]string, error)
	SaveRoster(ctx context.Context, sess *session.Session, names []string) error

	// Config documents are free-form and opaque to the core.
	GetConfig(ctx context.Context, sess *session.Session) (map[string]any, error)
	SaveConfig(ctx context.Context, sess *session.Session, cfg map[string]any) error
}

// Tenant is a company namespace. All ledger documents hang off its ID.
type Tenant struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

// User links a login to its tenant. The first registered user of a company
// owns it.
type User struct {
	ID           string
	Email        string
	TenantID     string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountStore holds the records behind register/login. It is deliberately
// separate from LedgerStore: account lookups happen before a session exists.
type AccountStore interface {
	CreateTenant(ctx context.Context, t Tenant) error
	GetTenant(ctx context.Context, id string) (Tenant, error)
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
}
