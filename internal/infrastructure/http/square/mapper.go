package square

import (
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/catalog"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/pricing"
)

// catalogObject is the generic Square catalog envelope. Only the data block
// matching Type is populated.
type catalogObject struct {
	Type              string                `json:"type"`
	ID                string                `json:"id"`
	ItemData          *wireItemData         `json:"item_data,omitempty"`
	ItemVariationData *wireVariationData    `json:"item_variation_data,omitempty"`
	ImageData         *wireImageData        `json:"image_data,omitempty"`
	CategoryData      *wireCategoryData     `json:"category_data,omitempty"`
	ModifierListData  *wireModifierListData `json:"modifier_list_data,omitempty"`
	ModifierData      *wireModifierData     `json:"modifier_data,omitempty"`
}

type wireItemData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
	Categories  []struct {
		ID string `json:"id"`
	} `json:"categories"`
	ImageIDs         []string        `json:"image_ids"`
	Variations       []catalogObject `json:"variations"`
	ModifierListInfo []struct {
		ModifierListID string `json:"modifier_list_id"`
	} `json:"modifier_list_info"`
}

type wireVariationData struct {
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	PriceMoney *wireMoney `json:"price_money"`
}

type wireImageData struct {
	URL string `json:"url"`
}

type wireCategoryData struct {
	Name string `json:"name"`
}

type wireModifierListData struct {
	Name      string          `json:"name"`
	Modifiers []catalogObject `json:"modifiers"`
}

type wireModifierData struct {
	Name           string     `json:"name"`
	ModifierListID string     `json:"modifier_list_id"`
	PriceMoney     *wireMoney `json:"price_money"`
}

// mapCatalog resolves the flat catalog object list into menu items. Images,
// categories and modifier lists are indexed by id first, then each ITEM is
// assembled against those indexes.
func mapCatalog(objects []catalogObject) []catalog.Item {
	images := make(map[string]string)
	categories := make(map[string]string)
	modifierLists := make(map[string]*catalog.ModifierGroup)

	for _, obj := range objects {
		switch obj.Type {
		case "IMAGE":
			if obj.ImageData != nil {
				images[obj.ID] = obj.ImageData.URL
			}
		case "CATEGORY":
			if obj.CategoryData != nil {
				categories[obj.ID] = obj.CategoryData.Name
			}
		case "MODIFIER_LIST":
			if obj.ModifierListData != nil {
				group := &catalog.ModifierGroup{Name: obj.ModifierListData.Name}
				for _, mod := range obj.ModifierListData.Modifiers {
					if m, ok := mapModifier(mod); ok {
						group.Modifiers = append(group.Modifiers, m)
					}
				}
				modifierLists[obj.ID] = group
			}
		}
	}

	// Standalone MODIFIER objects attach to their list when the list did
	// not inline them.
	for _, obj := range objects {
		if obj.Type != "MODIFIER" || obj.ModifierData == nil {
			continue
		}
		group, ok := modifierLists[obj.ModifierData.ModifierListID]
		if !ok {
			continue
		}
		if containsModifier(group.Modifiers, obj.ID) {
			continue
		}
		if m, ok := mapModifier(obj); ok {
			group.Modifiers = append(group.Modifiers, m)
		}
	}

	var items []catalog.Item
	for _, obj := range objects {
		if obj.Type != "ITEM" || obj.ItemData == nil {
			continue
		}
		items = append(items, mapItem(obj, images, categories, modifierLists))
	}
	return items
}

func mapItem(obj catalogObject, images, categories map[string]string, modifierLists map[string]*catalog.ModifierGroup) catalog.Item {
	data := obj.ItemData

	item := catalog.Item{
		ID:          obj.ID,
		Name:        data.Name,
		Description: data.Description,
		Currency:    "USD",
	}

	categoryID := data.CategoryID
	if categoryID == "" && len(data.Categories) > 0 {
		categoryID = data.Categories[0].ID
	}
	item.Category = categories[categoryID]

	if len(data.ImageIDs) > 0 {
		item.Image = images[data.ImageIDs[0]]
	}

	for _, v := range data.Variations {
		if v.ItemVariationData == nil {
			continue
		}
		variation := catalog.Variation{
			ID:       v.ID,
			Name:     v.ItemVariationData.Name,
			SKU:      v.ItemVariationData.SKU,
			Currency: "USD",
		}
		if v.ItemVariationData.PriceMoney != nil {
			price := pricing.Dollars(v.ItemVariationData.PriceMoney.Amount)
			variation.Price = &price
			variation.Currency = orDefault(v.ItemVariationData.PriceMoney.Currency, "USD")
		}
		item.Variations = append(item.Variations, variation)
	}

	// Display price is the first priced variation, matching how the menu
	// cards render a starting price.
	for _, v := range item.Variations {
		if v.Price != nil {
			item.Price = *v.Price
			item.Currency = v.Currency
			break
		}
	}

	for _, info := range data.ModifierListInfo {
		if group, ok := modifierLists[info.ModifierListID]; ok {
			item.Modifiers = append(item.Modifiers, *group)
		}
	}

	return item
}

func mapModifier(obj catalogObject) (catalog.Modifier, bool) {
	if obj.ModifierData == nil {
		return catalog.Modifier{}, false
	}
	m := catalog.Modifier{
		ID:   obj.ID,
		Name: obj.ModifierData.Name,
	}
	if obj.ModifierData.PriceMoney != nil {
		m.Price = pricing.Dollars(obj.ModifierData.PriceMoney.Amount)
	}
	return m, true
}

func containsModifier(mods []catalog.Modifier, id string) bool {
	for _, m := range mods {
		if m.ID == id {
			return true
		}
	}
	return false
}
