package cart

import (
	"encoding/json"

	"github.com/google/uuid"

	domain "github.com/Visionary-Advance/xoco-coffee/internal/domain/cart"
)

// The pre-envelope cart was a bare JSON array whose entries varied by call
// site: size was sometimes a plain string, temperature lived in its own
// string field, and the price field was named "price". migrateLegacy lifts
// both historical shapes into the canonical Line.

type legacyLine struct {
	CartID              string            `json:"cartId"`
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Image               string            `json:"img"`
	Size                json.RawMessage   `json:"size"`
	Temperature         string            `json:"temperature"`
	Modifiers           []legacySelection `json:"modifiers"`
	SpecialInstructions string            `json:"specialInstructions"`
	Quantity            int               `json:"quantity"`
	Price               float64           `json:"price"`
}

type legacySelection struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	GroupName string  `json:"modifierListName"`
}

func migrateLegacy(raw []byte) (domain.Lines, bool) {
	var legacy []legacyLine
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, false
	}

	lines := make(domain.Lines, 0, len(legacy))
	for _, old := range legacy {
		line := domain.Line{
			CartID:              old.CartID,
			ItemID:              old.ID,
			Name:                old.Name,
			Image:               old.Image,
			Size:                migrateSize(old.Size),
			SpecialInstructions: old.SpecialInstructions,
			Quantity:            old.Quantity,
			UnitPrice:           old.Price,
		}
		if line.CartID == "" {
			line.CartID = uuid.NewString()
		}
		if line.Quantity <= 0 {
			line.Quantity = 1
		}

		for _, m := range old.Modifiers {
			line.Selections = append(line.Selections, domain.Selection{
				ID:        m.ID,
				Name:      m.Name,
				Price:     m.Price,
				GroupName: m.GroupName,
			})
		}
		// A v1 temperature string becomes a selection in the Temperature
		// group so the merge key and order notes keep seeing it.
		if old.Temperature != "" && line.Temperature() == "" {
			line.Selections = append(line.Selections, domain.Selection{
				ID:        "legacy-temp-" + old.Temperature,
				Name:      old.Temperature,
				GroupName: "Temperature",
			})
		}

		lines = append(lines, line)
	}
	return lines, true
}

// migrateSize accepts both historical encodings: a bare string name or a
// {id, name} object.
func migrateSize(raw json.RawMessage) domain.SizeRef {
	if len(raw) == 0 {
		return domain.SizeRef{}
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return domain.SizeRef{Name: name}
	}

	var ref domain.SizeRef
	if err := json.Unmarshal(raw, &ref); err == nil {
		return ref
	}
	return domain.SizeRef{}
}
