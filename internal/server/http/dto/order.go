package dto

import "time"

// OrderItemPayload is one menu line inside an order body.
type OrderItemPayload struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest describes the customer submission payload.
type CreateOrderRequest struct {
	Table        *string            `json:"table,omitempty"`
	GuestName    *string            `json:"guest_name,omitempty"`
	Comments     *string            `json:"comments,omitempty"`
	AllergyNotes *string            `json:"allergy_notes,omitempty"`
	Items        []OrderItemPayload `json:"items"`
}

// CancelOrderRequest carries the optional reason for a void.
type CancelOrderRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// OrderResponse is the full record snapshot returned by every order
// endpoint. The advisory timing fields are present only on board views.
type OrderResponse struct {
	ID              int64              `json:"id"`
	Table           *string            `json:"table,omitempty"`
	GuestName       *string            `json:"guest_name,omitempty"`
	Comments        *string            `json:"comments,omitempty"`
	AllergyNotes    *string            `json:"allergy_notes,omitempty"`
	Items           []OrderItemPayload `json:"items"`
	Status          string             `json:"status"`
	VoidReason      *string            `json:"void_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	SentToKitchenAt *time.Time         `json:"sent_to_kitchen_at,omitempty"`
	ReadyAt         *time.Time         `json:"ready_at,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty"`

	DeadlineMinutes *int64 `json:"deadline_minutes,omitempty"`
	ElapsedSeconds  *int64 `json:"elapsed_seconds,omitempty"`
	Late            *bool  `json:"late,omitempty"`
}
