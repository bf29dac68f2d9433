package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cashout/internal/session"
	"cashout/internal/store"
)

var (
	ErrInvalidInput       = errors.New("invalid registration input")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles company registration and login. Registering creates the
// company (tenant) and its first user in one step; that user owns the
// company.
type Service struct {
	accounts store.AccountStore
	tokens   TokenConfig
}

func NewService(accounts store.AccountStore, tokens TokenConfig) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Register creates a company and its admin user, then issues a token. The
// returned session carries the new tenant so the caller can start writing
// ledgers immediately.
func (s *Service) Register(ctx context.Context, companyName, email, password string) (*session.Session, string, error) {
	companyName = strings.TrimSpace(companyName)
	email = normalizeEmail(email)
	if companyName == "" || email == "" || len(password) < 8 {
		return nil, "", ErrInvalidInput
	}

	if _, err := s.accounts.GetUserByEmail(ctx, email); err == nil {
		return nil, "", store.ErrUserExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	tenant := store.Tenant{
		ID:        uuid.NewString(),
		Name:      companyName,
		CreatedAt: now,
	}
	user := store.User{
		ID:           uuid.NewString(),
		Email:        email,
		TenantID:     tenant.ID,
		Role:         "admin",
		PasswordHash: hash,
		CreatedAt:    now,
	}
	tenant.OwnerID = user.ID

	if err := s.accounts.CreateTenant(ctx, tenant); err != nil {
		return nil, "", fmt.Errorf("create tenant: %w", err)
	}
	if err := s.accounts.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "Company registered",
		"tenant_id", tenant.ID,
		"company", tenant.Name)

	return s.issue(user, tenant)
}

// Login verifies the credentials and issues a token bound to the user's
// tenant.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, string, error) {
	email = normalizeEmail(email)
	user, err := s.accounts.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", ErrInvalidCredentials
	}

	tenant, err := s.accounts.GetTenant(ctx, user.TenantID)
	if err != nil {
		return nil, "", fmt.Errorf("lookup tenant: %w", err)
	}

	return s.issue(user, tenant)
}

// SessionFromToken validates a bearer token and rebuilds the session it
// carries. This is what the HTTP auth middleware calls per request.
func (s *Service) SessionFromToken(raw string) (*session.Session, error) {
	claims, err := s.tokens.ValidateToken(raw)
	if err != nil {
		return nil, err
	}
	return &session.Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		TenantID:    claims.TenantID,
		CompanyName: claims.CompanyName,
	}, nil
}

func (s *Service) issue(user store.User, tenant store.Tenant) (*session.Session, string, error) {
	token, err := s.tokens.IssueToken(user.ID, user.Email, tenant.ID, tenant.Name)
	if err != nil {
		return nil, "", err
	}
	sess := &session.Session{
		UserID:      user.ID,
		Email:       user.Email,
		TenantID:    tenant.ID,
		CompanyName: tenant.Name,
	}
	return sess, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
