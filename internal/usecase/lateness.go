package usecase

import (
	"time"

	"github.com/callenovena/comanda/internal/domain/model"
)

// BaselinePrepTime applies when no catalog rule matches an item.
const BaselinePrepTime = 15 * time.Minute

// PrepTimer resolves the kitchen prep time for a menu item. The catalog
// implements it; the zero return means "no rule, use the baseline".
type PrepTimer interface {
	PrepTime(itemID string) time.Duration
}

// Deadline derives the per-order kitchen deadline: the maximum prep time
// across the order's items, with BaselinePrepTime as the floor source for
// items the catalog does not know.
func Deadline(order *model.Order, prep PrepTimer) time.Duration {
	deadline := time.Duration(0)
	for _, it := range order.Items {
		d := time.Duration(0)
		if prep != nil {
			d = prep.PrepTime(it.ItemID)
		}
		if d == 0 {
			d = BaselinePrepTime
		}
		if d > deadline {
			deadline = d
		}
	}
	if deadline == 0 {
		deadline = BaselinePrepTime
	}
	return deadline
}

// Late reports whether the order has been in the kitchen longer than its
// deadline. Advisory only: it is recomputed on demand from
// now - sentToKitchenAt and never stored, and it blocks no transition.
func Late(order *model.Order, prep PrepTimer, now time.Time) bool {
	if order.Status != model.OrderStatusConfirmed || order.SentToKitchenAt == nil {
		return false
	}
	return now.Sub(*order.SentToKitchenAt) > Deadline(order, prep)
}
