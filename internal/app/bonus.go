package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"guest_portal/internal/adapters/observability"
	"guest_portal/internal/domain"
)

// maxViewTTL caps how long a cached bonus view may outlive a concurrent append.
const maxViewTTL = 30 * time.Second

type BonusService struct {
	repo     domain.BonusRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewBonusService(r domain.BonusRepository, c domain.Cache, ttl time.Duration) *BonusService {
	if ttl > maxViewTTL {
		ttl = maxViewTTL
	}
	return &BonusService{repo: r, cache: c, cacheTTL: ttl, now: time.Now}
}

// View returns the guest's summary and newest-first history, cache-aside.
func (s *BonusService) View(ctx context.Context, guestID string) (domain.BonusView, error) {
	var v domain.BonusView
	if ok, _ := s.cache.Get(ctx, bonusKey(guestID), &v); ok {
		return v, nil
	}
	v, err := s.load(ctx, guestID)
	if err != nil {
		return domain.BonusView{}, err
	}
	_ = s.cache.Set(ctx, bonusKey(guestID), v, int(s.cacheTTL.Seconds()))
	return v, nil
}

// Audit reads the ledger bypassing the cache and reports running-balance breaks.
func (s *BonusService) Audit(ctx context.Context, guestID string) (domain.BonusView, []domain.LedgerDiscrepancy, error) {
	v, err := s.load(ctx, guestID)
	if err != nil {
		return domain.BonusView{}, nil, err
	}
	return v, domain.VerifyLedger(v.Transactions), nil
}

// Refresh audits the ledger and stores the fresh view in the cache.
// A failed cache write is logged; it never hides the audit result.
func (s *BonusService) Refresh(ctx context.Context, guestID string) ([]domain.LedgerDiscrepancy, error) {
	v, disc, err := s.Audit(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, bonusKey(guestID), v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("guest_id", guestID).Msg("bonus view not cached")
	}
	return disc, nil
}

// Append records an earn (amount > 0) or spend (amount < 0) for the guest.
func (s *BonusService) Append(ctx context.Context, guestID string, amount int64, note *string, createdBy string) (domain.BonusTransaction, error) {
	if amount == 0 {
		return domain.BonusTransaction{}, domain.ErrInvalidAmount
	}
	d := domain.BonusDraft{
		ID:        uuid.NewString(),
		GuestID:   guestID,
		Amount:    amount,
		Note:      note,
		CreatedAt: s.now().UTC(),
	}
	if createdBy != "" {
		d.CreatedBy = &createdBy
	}
	tx, err := s.repo.AppendBonusTransaction(ctx, d)
	if err != nil {
		return domain.BonusTransaction{}, err
	}
	observability.ObserveBonusTransaction(amount)
	_ = s.cache.Del(ctx, bonusKey(guestID))
	return tx, nil
}

func (s *BonusService) load(ctx context.Context, guestID string) (domain.BonusView, error) {
	txs, err := s.repo.ListBonusTransactions(ctx, guestID)
	if err != nil {
		return domain.BonusView{}, fmt.Errorf("list bonus transactions: %w", err)
	}
	if txs == nil {
		txs = []domain.BonusTransaction{}
	}
	return domain.BonusView{
		GuestID:      guestID,
		Summary:      domain.Aggregate(txs),
		Transactions: txs,
	}, nil
}

func bonusKey(guestID string) string { return "bonus:" + guestID }
