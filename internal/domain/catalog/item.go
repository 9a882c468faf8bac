package catalog

import (
	"errors"
	"strings"
)

// ErrItemNotFound is returned when an item id is not in the catalog.
var ErrItemNotFound = errors.New("catalog item not found")

// Item is the menu-facing snapshot of one Square catalog item. It is
// read-only for this service; Square owns the data.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Image       string          `json:"img"`
	Variations  []Variation     `json:"variations"`
	Modifiers   []ModifierGroup `json:"modifiers"`
}

// Variation is one purchasable size/option of an item.
// Price overrides the item's display price when set.
type Variation struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	SKU      string   `json:"sku,omitempty"`
	Price    *float64 `json:"price"`
	Currency string   `json:"currency,omitempty"`
}

// ModifierGroup is one selection group attached to an item.
type ModifierGroup struct {
	Name      string     `json:"name"`
	Modifiers []Modifier `json:"modifiers"`
}

// Modifier is one selectable add-on with its surcharge in dollars.
type Modifier struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// IsTemperature reports whether this group uses single-selection (radio)
// semantics. The catalog has no structural flag for it; groups are matched
// by name, the same heuristic the storefront UI uses.
func (g ModifierGroup) IsTemperature() bool {
	return strings.Contains(strings.ToLower(g.Name), "temperature")
}

// VariationByID returns the variation with the given id, or nil.
func (i Item) VariationByID(id string) *Variation {
	for idx := range i.Variations {
		if i.Variations[idx].ID == id {
			return &i.Variations[idx]
		}
	}
	return nil
}

// ModifierByID returns the modifier with the given id together with the
// group it belongs to, or nils when the item does not offer it.
func (i Item) ModifierByID(id string) (*Modifier, *ModifierGroup) {
	for g := range i.Modifiers {
		for m := range i.Modifiers[g].Modifiers {
			if i.Modifiers[g].Modifiers[m].ID == id {
				return &i.Modifiers[g].Modifiers[m], &i.Modifiers[g]
			}
		}
	}
	return nil, nil
}

// TemperatureGroup returns the item's temperature group, or nil when the
// item has none.
func (i Item) TemperatureGroup() *ModifierGroup {
	for idx := range i.Modifiers {
		if i.Modifiers[idx].IsTemperature() {
			return &i.Modifiers[idx]
		}
	}
	return nil
}
