package cart

import (
	"context"

	domain "github.com/Visionary-Advance/xoco-coffee/internal/domain/cart"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/catalog"
)

// ConfigureInput is the complete state of the item modal for one line:
// chosen variation, the full set of selected modifiers, instructions and
// quantity. CartID names an existing line when the modal was opened to
// edit one.
type ConfigureInput struct {
	CartID       string
	VariationID  string
	ModifierIDs  []string
	Instructions string
	Quantity     int
}

// Configure prices and validates the modal state against the catalog item
// and puts the resulting line in the cart. A new line merges with an
// existing identical configuration; an edit (CartID set) replaces the
// named line while keeping its identity.
func (s *Service) Configure(ctx context.Context, key string, item catalog.Item, input ConfigureInput) (domain.Lines, error) {
	lines, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if input.CartID != "" {
		found := false
		for i := range lines {
			if lines[i].CartID == input.CartID {
				lines = append(lines[:i], lines[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return nil, domain.ErrLineNotFound
		}
	}

	cfg := domain.NewConfiguration(item, input.VariationID, nil)
	for _, id := range input.ModifierIDs {
		mod, group := item.ModifierByID(id)
		if mod == nil {
			return nil, domain.ErrUnknownModifier
		}
		cfg.ToggleModifier(*mod, true, group.Name)
	}
	cfg.SetInstructions(input.Instructions)
	if input.Quantity > 0 {
		cfg.SetQuantity(input.Quantity)
	}

	line, err := cfg.BuildLine(input.CartID)
	if err != nil {
		return nil, err
	}

	merged := false
	mergeKey := line.MergeKey()
	for i := range lines {
		if lines[i].MergeKey() == mergeKey {
			lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}

	if err := s.persist(ctx, key, lines); err != nil {
		return nil, err
	}
	return lines, nil
}
