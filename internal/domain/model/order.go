package model

import "time"

// OrderStatus describes the service lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPendingWaiter OrderStatus = "pending_waiter"
	OrderStatusConfirmed     OrderStatus = "confirmed"
	OrderStatusReady         OrderStatus = "ready"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPendingWaiter, OrderStatusConfirmed, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderItem is a single menu item line within an order.
type OrderItem struct {
	ItemID   string
	Name     string
	Quantity int
}

// Order describes a guest's submitted set of menu item requests tied to a
// table, tracked through the status lifecycle. Timestamp pointers are nil
// until the corresponding transition happens and are stamped exactly once.
type Order struct {
	ID              int64
	Table           *string
	GuestName       *string
	Comments        *string
	AllergyNotes    *string
	Items           []OrderItem
	Status          OrderStatus
	VoidReason      *string
	CreatedAt       time.Time
	SentToKitchenAt *time.Time
	ReadyAt         *time.Time
	DeliveredAt     *time.Time
}

// OrderDraft carries the customer submission before persistence.
type OrderDraft struct {
	Table        *string
	GuestName    *string
	Comments     *string
	AllergyNotes *string
	Items        []OrderItem
}
