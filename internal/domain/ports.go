package domain

import (
	"context"
	"time"
)

type CatalogRepository interface {
	// Read paths
	ListCatalog(ctx context.Context, kind CatalogKind, city string) ([]CatalogEntity, error)
	ListOverrides(ctx context.Context, kind CatalogKind, propertyID string) ([]PriceOverride, error)

	// Write paths (admin)
	UpsertOverride(ctx context.Context, kind CatalogKind, o PriceOverride) error
	DeleteOverride(ctx context.Context, kind CatalogKind, propertyID, entityID string) error
}

type BonusRepository interface {
	ListBonusTransactions(ctx context.Context, guestID string) ([]BonusTransaction, error)
	// AppendBonusTransaction computes balance_after from the guest's latest row
	// atomically with the insert.
	AppendBonusTransaction(ctx context.Context, d BonusDraft) (BonusTransaction, error)
	ListGuestIDs(ctx context.Context) ([]string, error)
}

type GuestRepository interface {
	GetGuest(ctx context.Context, id string) (Guest, error)
	GetGuestByToken(ctx context.Context, token string) (Guest, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// TokenIssuer turns sessions into bearer tokens and back.
type TokenIssuer interface {
	Issue(s Session) (token string, expiresAt time.Time, err error)
	Parse(token string) (Session, error)
}
