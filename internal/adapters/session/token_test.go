package session

import (
	"errors"
	"testing"
	"time"

	"guest_portal/internal/domain"
)

func TestTokens_RoundTrip(t *testing.T) {
	tk, err := NewTokens("s3cret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	in := domain.Session{Subject: "guest:g1", GuestID: "g1", PropertyID: "p1", City: "Sochi", Role: domain.RoleGuest}

	tok, exp, err := tk.Issue(in)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %v", exp)
	}
	out, err := tk.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestTokens_Expired(t *testing.T) {
	tk, _ := NewTokens("s3cret", time.Minute)
	issued := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return issued }
	tok, _, err := tk.Issue(domain.Session{Subject: "admin", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tk.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := tk.Parse(tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	a, _ := NewTokens("one", time.Hour)
	b, _ := NewTokens("two", time.Hour)
	tok, _, _ := a.Issue(domain.Session{Subject: "admin", Role: domain.RoleAdmin})
	if _, err := b.Parse(tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := b.Parse("garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage, got %v", err)
	}
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
