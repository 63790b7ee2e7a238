package domain

import "time"

type Guest struct {
	ID          string
	FullName    string
	PropertyID  string
	City        string
	AccessToken string
	IsActive    bool
	CheckOut    *time.Time
}

// CanSignIn reports whether the guest's token may still open a session at t.
func (g Guest) CanSignIn(t time.Time) bool {
	if !g.IsActive {
		return false
	}
	// the token stays valid through the whole check-out day
	return g.CheckOut == nil || t.Before(g.CheckOut.AddDate(0, 0, 1))
}
