package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"guest_portal/internal/domain"
)

// SessionToken is handed to the client after a successful sign-in.
type SessionToken struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Role      domain.Role `json:"role"`
	GuestName string      `json:"guest_name,omitempty"`
}

type AuthService struct {
	guests        domain.GuestRepository
	tokens        domain.TokenIssuer
	adminPassword string
	now           func() time.Time
}

func NewAuthService(g domain.GuestRepository, t domain.TokenIssuer, adminPassword string) *AuthService {
	return &AuthService{guests: g, tokens: t, adminPassword: adminPassword, now: time.Now}
}

// SignInGuest exchanges a guest access token (from the booking link) for a session.
func (s *AuthService) SignInGuest(ctx context.Context, accessToken string) (SessionToken, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return SessionToken{}, fmt.Errorf("access token is required: %w", domain.ErrInvalidInput)
	}
	g, err := s.guests.GetGuestByToken(ctx, accessToken)
	if errors.Is(err, domain.ErrNotFound) {
		return SessionToken{}, fmt.Errorf("unknown access token: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return SessionToken{}, err
	}
	if !g.CanSignIn(s.now()) {
		return SessionToken{}, fmt.Errorf("guest %s cannot sign in: %w", g.ID, domain.ErrUnauthorized)
	}

	tok, exp, err := s.tokens.Issue(domain.Session{
		Subject:    "guest:" + g.ID,
		GuestID:    g.ID,
		PropertyID: g.PropertyID,
		City:       g.City,
		Role:       domain.RoleGuest,
	})
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: tok, ExpiresAt: exp, Role: domain.RoleGuest, GuestName: g.FullName}, nil
}

func (s *AuthService) SignInAdmin(_ context.Context, password string) (SessionToken, error) {
	if s.adminPassword == "" {
		return SessionToken{}, fmt.Errorf("admin sign-in disabled: %w", domain.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return SessionToken{}, fmt.Errorf("wrong admin password: %w", domain.ErrUnauthorized)
	}
	tok, exp, err := s.tokens.Issue(domain.Session{Subject: "admin", Role: domain.RoleAdmin})
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: tok, ExpiresAt: exp, Role: domain.RoleAdmin}, nil
}

// Authenticate resolves a bearer token into a session.
func (s *AuthService) Authenticate(token string) (domain.Session, error) {
	return s.tokens.Parse(token)
}
