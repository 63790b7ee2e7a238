package mysql

import (
	"fmt"

	"guest_portal/internal/domain"
)

// catalogTables maps a catalog kind to its entity and override tables.
type catalogTables struct {
	entities  string
	overrides string
}

var tablesByKind = map[domain.CatalogKind]catalogTables{
	domain.KindShop:   {entities: "shop_items", overrides: "shop_item_overrides"},
	domain.KindTravel: {entities: "travel_services", overrides: "travel_service_overrides"},
}

func tablesFor(kind domain.CatalogKind) (catalogTables, error) {
	t, ok := tablesByKind[kind]
	if !ok {
		return catalogTables{}, fmt.Errorf("catalog kind %q: %w", kind, domain.ErrInvalidInput)
	}
	return t, nil
}

// -----------------------------------------------------------------------------
// CATALOG (table names come from tablesByKind only)
// -----------------------------------------------------------------------------

const listCatalogSQL = `
SELECT id, name, description, category, image_url, base_price, city, is_active, created_at, updated_at
FROM %s
WHERE city = ? AND is_active = TRUE
ORDER BY name, id
`

const listOverridesSQL = `
SELECT entity_id, property_id, price_override, is_available
FROM %s
WHERE property_id = ?
`

const upsertOverrideSQL = `
INSERT INTO %s (entity_id, property_id, price_override, is_available)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  price_override = VALUES(price_override),
  is_available   = VALUES(is_available)
`

const deleteOverrideSQL = `DELETE FROM %s WHERE property_id = ? AND entity_id = ?`

// -----------------------------------------------------------------------------
// BONUS LEDGER
// -----------------------------------------------------------------------------

// Newest first; seq breaks created_at ties in insertion order.
const listBonusSQL = `
SELECT id, guest_id, amount, balance_after, note, created_by, created_at
FROM bonus_transactions
WHERE guest_id = ?
ORDER BY created_at DESC, seq DESC
`

// Row lock on the guest serializes concurrent appends for that guest.
const lockGuestSQL = `SELECT id FROM guests WHERE id = ? FOR UPDATE`

const latestBalanceSQL = `
SELECT balance_after, created_at
FROM bonus_transactions
WHERE guest_id = ?
ORDER BY created_at DESC, seq DESC
LIMIT 1
`

const insertBonusSQL = `
INSERT INTO bonus_transactions (id, guest_id, amount, balance_after, note, created_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// GUESTS
// -----------------------------------------------------------------------------

const guestColumns = `id, full_name, property_id, city, access_token, is_active, check_out`

const getGuestSQL = `SELECT ` + guestColumns + ` FROM guests WHERE id = ?`

const getGuestByTokenSQL = `SELECT ` + guestColumns + ` FROM guests WHERE access_token = ?`

const listGuestIDsSQL = `SELECT id FROM guests ORDER BY id`
