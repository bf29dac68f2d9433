package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when the config leaves the TTL unset.
const DefaultTokenTTL = 12 * time.Hour

// TokenConfig holds the signing material for access tokens.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Claims are the access-token claims. TenantID and CompanyName let the HTTP
// layer rebuild a session.Session without a database round trip per request.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	TenantID    string `json:"tenant_id,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

var ErrInvalidToken = errors.New("invalid or expired token")

// IssueToken signs an HS256 access token for the user.
func (c TokenConfig) IssueToken(userID, email, tenantID, companyName string) (string, error) {
	ttl := c.TTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       email,
		TenantID:    tenantID,
		CompanyName: companyName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token string and returns its claims.
func (c TokenConfig) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.Secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuer(c.Issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
