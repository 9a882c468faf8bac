package cart

import (
	"sort"
	"strings"
)

// SizeRef is the chosen variation snapshot carried on a line. Both fields
// stay empty for items without variations.
type SizeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Selection is one chosen modifier, tagged with the name of its group so
// the cart and the order note can display it under the right heading.
type Selection struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	GroupName string  `json:"group_name,omitempty"`
}

// Line is one configured, priced, quantity-bearing entry in the cart.
//
// Name, Image and UnitPrice are snapshots taken at add time; upstream
// catalog changes do not retroactively alter lines already in the cart.
// UnitPrice is stored rather than derived so persisted carts stay valid
// even if the pricing rules change.
type Line struct {
	CartID              string      `json:"cart_id"`
	ItemID              string      `json:"item_id"`
	Name                string      `json:"name"`
	Image               string      `json:"img,omitempty"`
	Size                SizeRef     `json:"size"`
	Selections          []Selection `json:"selections,omitempty"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	Quantity            int         `json:"quantity"`
	UnitPrice           float64     `json:"unit_price"`
}

// Lines is the ordered cart contents; insertion order is display order.
type Lines []Line

// MergeKey identifies a line's configuration for merge-on-add decisions.
// Two lines with equal keys are the same logical line and merge quantities.
// The key is the catalog item id, the variation id (size name as fallback
// for migrated legacy lines that have no id), the sorted modifier ids, and
// the special instructions. Display names are deliberately not part of the
// key: two distinct items sharing a name must not merge.
func (l Line) MergeKey() string {
	size := l.Size.ID
	if size == "" {
		size = l.Size.Name
	}

	ids := make([]string, 0, len(l.Selections))
	for _, s := range l.Selections {
		ids = append(ids, s.ID)
	}
	sort.Strings(ids)

	return strings.Join([]string{
		l.ItemID,
		size,
		strings.Join(ids, ","),
		l.SpecialInstructions,
	}, "|")
}

// Subtotal is the sum of unit price times quantity over all lines.
func (ls Lines) Subtotal() float64 {
	total := 0.0
	for _, l := range ls {
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

// Find returns the index of the line with the given cart id, or -1.
func (ls Lines) Find(cartID string) int {
	for i := range ls {
		if ls[i].CartID == cartID {
			return i
		}
	}
	return -1
}

// Temperature returns the name of the line's temperature selection, or "".
func (l Line) Temperature() string {
	for _, s := range l.Selections {
		if strings.Contains(strings.ToLower(s.GroupName), "temperature") {
			return s.Name
		}
	}
	return ""
}
