package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"guest_portal/internal/domain"
)

const issuer = "guest-portal"

type claims struct {
	Role       string `json:"role"`
	GuestID    string `json:"gid,omitempty"`
	PropertyID string `json:"pid,omitempty"`
	City       string `json:"city,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and validates HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (t *Tokens) Issue(s domain.Session) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	c := claims{
		Role:       string(s.Role),
		GuestID:    s.GuestID,
		PropertyID: s.PropertyID,
		City:       s.City,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (t *Tokens) Parse(token string) (domain.Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Session{}, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
		}
		return domain.Session{}, fmt.Errorf("invalid session token: %w", domain.ErrUnauthorized)
	}

	role := domain.Role(c.Role)
	if role != domain.RoleGuest && role != domain.RoleAdmin {
		return domain.Session{}, fmt.Errorf("unknown role %q: %w", c.Role, domain.ErrUnauthorized)
	}
	if role == domain.RoleGuest && c.GuestID == "" {
		return domain.Session{}, fmt.Errorf("guest session without guest id: %w", domain.ErrUnauthorized)
	}
	return domain.Session{
		Subject:    c.Subject,
		GuestID:    c.GuestID,
		PropertyID: c.PropertyID,
		City:       c.City,
		Role:       role,
	}, nil
}
