package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"guest_portal/internal/domain"
)

// MySQL error numbers we translate into domain errors.
const (
	errNoReferencedRow = 1452
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Repo implements the catalog, bonus and guest repositories over one *sql.DB.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- catalog ----

func (r *Repo) ListCatalog(ctx context.Context, kind domain.CatalogKind, city string) ([]domain.CatalogEntity, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(listCatalogSQL, t.entities), city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CatalogEntity
	for rows.Next() {
		e := domain.CatalogEntity{Kind: kind}
		var desc, category, image sql.NullString
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&desc,
			&category,
			&image,
			&e.BasePrice,
			&e.City,
			&e.IsActive,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Description = strPtr(desc)
		e.Category = strPtr(category)
		e.ImageURL = strPtr(image)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListOverrides(ctx context.Context, kind domain.CatalogKind, propertyID string) ([]domain.PriceOverride, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(listOverridesSQL, t.overrides), propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PriceOverride
	for rows.Next() {
		var o domain.PriceOverride
		var avail sql.NullBool
		if err := rows.Scan(&o.EntityID, &o.PropertyID, &o.PriceOverride, &avail); err != nil {
			return nil, err
		}
		if avail.Valid {
			b := avail.Bool
			o.IsAvailable = &b
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpsertOverride(ctx context.Context, kind domain.CatalogKind, o domain.PriceOverride) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	var price any
	if o.PriceOverride.Valid {
		price = o.PriceOverride.Decimal.StringFixed(2)
	}
	_, err = r.db.ExecContext(ctx, fmt.Sprintf(upsertOverrideSQL, t.overrides),
		o.EntityID,
		o.PropertyID,
		price,
		valBool(o.IsAvailable),
	)
	var me *gomysql.MySQLError
	if errors.As(err, &me) && me.Number == errNoReferencedRow {
		return fmt.Errorf("%s %s: %w", kind, o.EntityID, domain.ErrNotFound)
	}
	return err
}

func (r *Repo) DeleteOverride(ctx context.Context, kind domain.CatalogKind, propertyID, entityID string) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(deleteOverrideSQL, t.overrides), propertyID, entityID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("override %s/%s: %w", propertyID, entityID, domain.ErrNotFound)
	}
	return nil
}

// ---- bonus ledger ----

func (r *Repo) ListBonusTransactions(ctx context.Context, guestID string) ([]domain.BonusTransaction, error) {
	rows, err := r.db.QueryContext(ctx, listBonusSQL, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BonusTransaction
	for rows.Next() {
		var t domain.BonusTransaction
		var note, createdBy sql.NullString
		if err := rows.Scan(&t.ID, &t.GuestID, &t.Amount, &t.BalanceAfter, &note, &createdBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Note = strPtr(note)
		t.CreatedBy = strPtr(createdBy)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) AppendBonusTransaction(ctx context.Context, d domain.BonusDraft) (domain.BonusTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.BonusTransaction{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var gid string
	if err := tx.QueryRowContext(ctx, lockGuestSQL, d.GuestID).Scan(&gid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BonusTransaction{}, fmt.Errorf("guest %s: %w", d.GuestID, domain.ErrNotFound)
		}
		return domain.BonusTransaction{}, err
	}

	var (
		current  int64
		latestAt time.Time
	)
	if err := tx.QueryRowContext(ctx, latestBalanceSQL, d.GuestID).Scan(&current, &latestAt); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.BonusTransaction{}, err
	}
	// the new row must sort newest even if the caller's clock lags; seq breaks the tie
	createdAt := d.CreatedAt.UTC().Truncate(time.Microsecond)
	if createdAt.Before(latestAt) {
		createdAt = latestAt
	}

	next, err := domain.NextBalance(current, d.Amount)
	if err != nil {
		return domain.BonusTransaction{}, err
	}

	if _, err := tx.ExecContext(ctx, insertBonusSQL,
		d.ID,
		d.GuestID,
		d.Amount,
		next,
		valStr(d.Note),
		valStr(d.CreatedBy),
		createdAt,
	); err != nil {
		return domain.BonusTransaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.BonusTransaction{}, err
	}

	return domain.BonusTransaction{
		ID:           d.ID,
		GuestID:      d.GuestID,
		Amount:       d.Amount,
		BalanceAfter: next,
		Note:         d.Note,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    createdAt,
	}, nil
}

func (r *Repo) ListGuestIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listGuestIDsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ---- guests ----

func (r *Repo) GetGuest(ctx context.Context, id string) (domain.Guest, error) {
	return r.scanGuest(r.db.QueryRowContext(ctx, getGuestSQL, id))
}

func (r *Repo) GetGuestByToken(ctx context.Context, token string) (domain.Guest, error) {
	return r.scanGuest(r.db.QueryRowContext(ctx, getGuestByTokenSQL, token))
}

func (r *Repo) scanGuest(row *sql.Row) (domain.Guest, error) {
	var g domain.Guest
	var checkOut sql.NullTime
	if err := row.Scan(&g.ID, &g.FullName, &g.PropertyID, &g.City, &g.AccessToken, &g.IsActive, &checkOut); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Guest{}, domain.ErrNotFound
		}
		return domain.Guest{}, err
	}
	if checkOut.Valid {
		t := checkOut.Time
		g.CheckOut = &t
	}
	return g, nil
}
