package models

import (
	"fmt"
)

// InventoryItem is one sub-category of the /sub-category snapshot.
// GrowthPercent is signed; PredictedSales2025 is carried through but the
// dashboard derives its own projection from BaseSales2024 and GrowthPercent.
type InventoryItem struct {
	SubCategory        string   `json:"Sub-Category" validate:"required"`
	BaseSales2024      float64  `json:"Sales_2024" validate:"gte=0"`
	PredictedSales2025 *float64 `json:"predictedSales2025,omitempty"`
	GrowthPercent      float64  `json:"growth"`
	CampaignSuggestion string   `json:"campaignSuggestion,omitempty"`
}

// Validate checks tag rules for a single item.
func (i *InventoryItem) Validate() error {
	if i.SubCategory == "" {
		return ErrEmptySubCategory
	}
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("inventory item %q: %w", i.SubCategory, err)
	}
	return nil
}

// ValidateInventory checks every item and that sub-categories are unique.
func ValidateInventory(items []InventoryItem) error {
	seen := make(map[string]bool, len(items))
	for idx := range items {
		item := &items[idx]
		if err := item.Validate(); err != nil {
			return fmt.Errorf("inventory item %d: %w", idx, err)
		}
		if seen[item.SubCategory] {
			return fmt.Errorf("duplicate sub-category %q", item.SubCategory)
		}
		seen[item.SubCategory] = true
	}
	return nil
}
