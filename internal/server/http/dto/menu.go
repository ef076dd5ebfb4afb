package dto

// MenuItemResponse is one menu entry served to the customer cart.
type MenuItemResponse struct {
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	PrepMinutes int64  `json:"prep_minutes,omitempty"`
}
