package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"guest_portal/internal/domain"
)

// ---- fakes ----

type fakeCatalog struct {
	mu          sync.Mutex
	entities    map[domain.CatalogKind][]domain.CatalogEntity
	overrides   map[string][]domain.PriceOverride // key: property id
	overrideErr error
	listErr     error
	listCalls   int
}

func (f *fakeCatalog) ListCatalog(ctx context.Context, kind domain.CatalogKind, city string) ([]domain.CatalogEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.CatalogEntity
	for _, e := range f.entities[kind] {
		if e.City == city {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListOverrides(ctx context.Context, kind domain.CatalogKind, propertyID string) ([]domain.PriceOverride, error) {
	if f.overrideErr != nil {
		return nil, f.overrideErr
	}
	return f.overrides[propertyID], nil
}

func (f *fakeCatalog) UpsertOverride(ctx context.Context, kind domain.CatalogKind, o domain.PriceOverride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overrides == nil {
		f.overrides = map[string][]domain.PriceOverride{}
	}
	list := f.overrides[o.PropertyID]
	for i := range list {
		if list[i].EntityID == o.EntityID {
			list[i] = o
			return nil
		}
	}
	f.overrides[o.PropertyID] = append(list, o)
	return nil
}

func (f *fakeCatalog) DeleteOverride(ctx context.Context, kind domain.CatalogKind, propertyID, entityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.overrides[propertyID]
	for i := range list {
		if list[i].EntityID == entityID {
			f.overrides[propertyID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeLedger struct {
	mu     sync.Mutex
	guests map[string]bool
	txs    map[string][]domain.BonusTransaction // newest first
}

func newFakeLedger(guests ...string) *fakeLedger {
	f := &fakeLedger{guests: map[string]bool{}, txs: map[string][]domain.BonusTransaction{}}
	for _, g := range guests {
		f.guests[g] = true
	}
	return f
}

func (f *fakeLedger) ListBonusTransactions(ctx context.Context, guestID string) ([]domain.BonusTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.BonusTransaction(nil), f.txs[guestID]...), nil
}

func (f *fakeLedger) AppendBonusTransaction(ctx context.Context, d domain.BonusDraft) (domain.BonusTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.guests[d.GuestID] {
		return domain.BonusTransaction{}, domain.ErrNotFound
	}
	var current int64
	if list := f.txs[d.GuestID]; len(list) > 0 {
		current = list[0].BalanceAfter
	}
	next, err := domain.NextBalance(current, d.Amount)
	if err != nil {
		return domain.BonusTransaction{}, err
	}
	tx := domain.BonusTransaction{
		ID: d.ID, GuestID: d.GuestID, Amount: d.Amount, BalanceAfter: next,
		Note: d.Note, CreatedBy: d.CreatedBy, CreatedAt: d.CreatedAt,
	}
	f.txs[d.GuestID] = append([]domain.BonusTransaction{tx}, f.txs[d.GuestID]...)
	return tx, nil
}

func (f *fakeLedger) ListGuestIDs(ctx context.Context) ([]string, error) {
	var out []string
	for g := range f.guests {
		out = append(out, g)
	}
	return out, nil
}

type fakeGuests struct{ byToken map[string]domain.Guest }

func (f *fakeGuests) GetGuest(ctx context.Context, id string) (domain.Guest, error) {
	for _, g := range f.byToken {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.Guest{}, domain.ErrNotFound
}

func (f *fakeGuests) GetGuestByToken(ctx context.Context, token string) (domain.Guest, error) {
	g, ok := f.byToken[token]
	if !ok {
		return domain.Guest{}, domain.ErrNotFound
	}
	return g, nil
}

type fakeTokens struct{ issued []domain.Session }

func (f *fakeTokens) Issue(s domain.Session) (string, time.Time, error) {
	f.issued = append(f.issued, s)
	return "tok:" + s.Subject, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func (f *fakeTokens) Parse(token string) (domain.Session, error) {
	for _, s := range f.issued {
		if "tok:"+s.Subject == token {
			return s, nil
		}
	}
	return domain.Session{}, domain.ErrUnauthorized
}

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu     sync.Mutex
	store  map[string][]byte
	ttls   map[string]int
	dels   []string
	setErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	if c.store == nil {
		c.store = map[string][]byte{}
		c.ttls = map[string]int{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.ttls[key] = ttlSec
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
