package dto

// ErrorResponse is the structured failure body. Status carries the actual
// current order status on transition refusals so a stale client can resync.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
}
