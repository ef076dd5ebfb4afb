package model

// Role identifies the acting party behind a request. The engine consumes
// only a verified role claim, never raw credentials.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleWaiter   Role = "waiter"
	RoleKitchen  Role = "kitchen"
	RoleAdmin    Role = "admin"
)

// StaffRole reports whether the role can authenticate with a PIN.
func (r Role) StaffRole() bool {
	return r == RoleWaiter || r == RoleKitchen || r == RoleAdmin
}

type transitionKey struct {
	from OrderStatus
	to   OrderStatus
}

// transitions maps every legal status move to the role allowed to make it.
// Cancellation is possible only before the kitchen finishes: once an order
// is ready the food exists and the move to cancelled is rejected.
var transitions = map[transitionKey]Role{
	{OrderStatusPendingWaiter, OrderStatusConfirmed}: RoleWaiter,
	{OrderStatusPendingWaiter, OrderStatusCancelled}: RoleWaiter,
	{OrderStatusConfirmed, OrderStatusReady}:         RoleKitchen,
	{OrderStatusConfirmed, OrderStatusCancelled}:     RoleWaiter,
	{OrderStatusReady, OrderStatusDelivered}:         RoleWaiter,
}

// CanTransition reports whether the role may move an order from one status
// to another.
func CanTransition(from, to OrderStatus, role Role) bool {
	required, ok := transitions[transitionKey{from, to}]
	if !ok {
		return false
	}
	return role == required || role == RoleAdmin
}

// TransitionExists reports whether any role may perform the move.
func TransitionExists(from, to OrderStatus) bool {
	_, ok := transitions[transitionKey{from, to}]
	return ok
}

// Timestamp identifies one of the order's lifecycle timestamps.
type Timestamp int

const (
	TimestampNone Timestamp = iota
	TimestampSentToKitchen
	TimestampReady
	TimestampDelivered
)

// TimestampFor returns the lifecycle timestamp a transition target stamps,
// TimestampNone when the target stamps nothing.
func TimestampFor(to OrderStatus) Timestamp {
	switch to {
	case OrderStatusConfirmed:
		return TimestampSentToKitchen
	case OrderStatusReady:
		return TimestampReady
	case OrderStatusDelivered:
		return TimestampDelivered
	}
	return TimestampNone
}
