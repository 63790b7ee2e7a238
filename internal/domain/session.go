package domain

import "context"

type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Session is the authenticated caller of a request.
type Session struct {
	Subject    string
	GuestID    string
	PropertyID string
	City       string
	Role       Role
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
