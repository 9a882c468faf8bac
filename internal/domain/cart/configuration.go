package cart

import (
	"github.com/google/uuid"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/catalog"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/pricing"
)

// Configuration tracks one item being configured before it becomes a cart
// line: chosen size, modifier selections, instructions and quantity. It is
// the state behind the storefront's item modal, both for adding and for
// editing an existing line.
type Configuration struct {
	item         catalog.Item
	size         SizeRef
	selections   []Selection
	instructions string
	quantity     int
}

// NewConfiguration starts configuring an item. The size defaults to the
// variation with defaultVariationID, else the item's first variation. When
// editing, existing pre-seeds size, selections, instructions and quantity
// from the line being edited.
func NewConfiguration(item catalog.Item, defaultVariationID string, existing *Line) *Configuration {
	c := &Configuration{
		item:     item,
		quantity: 1,
	}

	if existing != nil {
		c.size = existing.Size
		c.selections = append([]Selection(nil), existing.Selections...)
		c.instructions = existing.SpecialInstructions
		if existing.Quantity > 0 {
			c.quantity = existing.Quantity
		}
		return c
	}

	if defaultVariationID != "" {
		if v := item.VariationByID(defaultVariationID); v != nil {
			c.size = SizeRef{ID: v.ID, Name: v.Name}
			return c
		}
	}
	if len(item.Variations) > 0 {
		first := item.Variations[0]
		c.size = SizeRef{ID: first.ID, Name: first.Name}
	}
	return c
}

// SelectVariation replaces the chosen size.
func (c *Configuration) SelectVariation(variationID string) {
	if v := c.item.VariationByID(variationID); v != nil {
		c.size = SizeRef{ID: v.ID, Name: v.Name}
		return
	}
	c.size = SizeRef{ID: variationID}
}

// ToggleModifier adds or removes a modifier selection. Selecting inside a
// temperature group replaces any prior selection in that group; all other
// groups are independent checkboxes.
func (c *Configuration) ToggleModifier(mod catalog.Modifier, selected bool, groupName string) {
	if !selected {
		kept := c.selections[:0]
		for _, s := range c.selections {
			if s.ID != mod.ID {
				kept = append(kept, s)
			}
		}
		c.selections = kept
		return
	}

	group := catalog.ModifierGroup{Name: groupName}
	if group.IsTemperature() {
		kept := c.selections[:0]
		for _, s := range c.selections {
			if s.GroupName != groupName {
				kept = append(kept, s)
			}
		}
		c.selections = kept
	}

	c.selections = append(c.selections, Selection{
		ID:        mod.ID,
		Name:      mod.Name,
		Price:     mod.Price,
		GroupName: groupName,
	})
}

// SetInstructions sets the free-text special instructions.
func (c *Configuration) SetInstructions(text string) {
	c.instructions = text
}

// SetQuantity sets the line quantity.
func (c *Configuration) SetQuantity(n int) {
	c.quantity = n
}

// UnitPrice is the current price of the configuration.
func (c *Configuration) UnitPrice() float64 {
	mods := make([]catalog.Modifier, 0, len(c.selections))
	for _, s := range c.selections {
		mods = append(mods, catalog.Modifier{ID: s.ID, Name: s.Name, Price: s.Price})
	}
	return pricing.LinePrice(c.item, c.size.ID, mods)
}

// BuildLine materializes the configuration into a cart line. A required
// size (items with variations) or temperature (items with a temperature
// group) that is still unselected rejects the build. When editing,
// existingCartID keeps the line's identity stable; otherwise a fresh id is
// minted.
func (c *Configuration) BuildLine(existingCartID string) (Line, error) {
	if len(c.item.Variations) > 0 && c.size.ID == "" {
		return Line{}, ErrSizeRequired
	}
	if c.item.TemperatureGroup() != nil && !c.hasTemperature() {
		return Line{}, ErrTemperatureRequired
	}
	if c.quantity <= 0 {
		return Line{}, ErrInvalidQuantity
	}

	cartID := existingCartID
	if cartID == "" {
		cartID = uuid.NewString()
	}

	return Line{
		CartID:              cartID,
		ItemID:              c.item.ID,
		Name:                c.item.Name,
		Image:               c.item.Image,
		Size:                c.size,
		Selections:          append([]Selection(nil), c.selections...),
		SpecialInstructions: c.instructions,
		Quantity:            c.quantity,
		UnitPrice:           c.UnitPrice(),
	}, nil
}

func (c *Configuration) hasTemperature() bool {
	group := c.item.TemperatureGroup()
	for _, s := range c.selections {
		if s.GroupName == group.Name {
			return true
		}
	}
	return false
}
