package dto

// LoginRequest describes role/PIN payload.
type LoginRequest struct {
	Role string `json:"role"`
	PIN  string `json:"pin"`
}

// TokenResponse carries an issued session token.
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
