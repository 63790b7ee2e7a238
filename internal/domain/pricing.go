package domain

// Resolve merges an entity with its (optional) override for one property.
// A missing override, a null override price, or an absent availability flag
// all fall back to the entity's base price and to available.
func Resolve(e CatalogEntity, o *PriceOverride) ResolvedOffering {
	out := ResolvedOffering{
		CatalogEntity: e,
		FinalPrice:    e.BasePrice,
		IsAvailable:   true,
	}
	if o == nil {
		return out
	}
	if o.PriceOverride.Valid {
		out.FinalPrice = o.PriceOverride.Decimal
	}
	if o.IsAvailable != nil && !*o.IsAvailable {
		out.IsAvailable = false
	}
	return out
}

// ResolveAll resolves every entity against an override set for a single property.
// The result has the same length and order as entities. If several overrides
// name the same entity, the first one wins.
func ResolveAll(entities []CatalogEntity, overrides []PriceOverride) []ResolvedOffering {
	byEntity := make(map[string]*PriceOverride, len(overrides))
	for i := range overrides {
		if _, seen := byEntity[overrides[i].EntityID]; !seen {
			byEntity[overrides[i].EntityID] = &overrides[i]
		}
	}
	out := make([]ResolvedOffering, 0, len(entities))
	for _, e := range entities {
		out = append(out, Resolve(e, byEntity[e.ID]))
	}
	return out
}
