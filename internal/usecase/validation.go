package usecase

import "github.com/callenovena/comanda/internal/domain/model"

// NormalizeItems drops items lacking an identifier and floors quantities at
// one. The returned slice preserves submission order.
func NormalizeItems(items []model.OrderItem) []model.OrderItem {
	normalized := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		if it.ItemID == "" {
			continue
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		normalized = append(normalized, it)
	}
	return normalized
}
