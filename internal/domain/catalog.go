package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogKind selects which catalog (and override table) an entity belongs to.
type CatalogKind string

const (
	KindShop   CatalogKind = "shop"
	KindTravel CatalogKind = "travel"
)

func ParseCatalogKind(s string) (CatalogKind, error) {
	switch CatalogKind(s) {
	case KindShop, KindTravel:
		return CatalogKind(s), nil
	}
	return "", fmt.Errorf("unknown catalog kind %q: %w", s, ErrInvalidInput)
}

// CatalogEntity is a shop item or travel service as stored, scoped to a city.
type CatalogEntity struct {
	ID          string          `json:"id"`
	Kind        CatalogKind     `json:"kind"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	City        string          `json:"city"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PriceOverride is a property-specific exception layered on a catalog entity.
// A null PriceOverride keeps the base price; a nil IsAvailable keeps the item available.
type PriceOverride struct {
	EntityID      string              `json:"entity_id"`
	PropertyID    string              `json:"property_id"`
	PriceOverride decimal.NullDecimal `json:"price_override"`
	IsAvailable   *bool               `json:"is_available"`
}

// ResolvedOffering is the display-ready price and availability of an entity at one property.
type ResolvedOffering struct {
	CatalogEntity
	FinalPrice  decimal.Decimal `json:"final_price"`
	IsAvailable bool            `json:"is_available"`
}

type CatalogQuery struct {
	Kind       CatalogKind
	City       string
	PropertyID *string
}
