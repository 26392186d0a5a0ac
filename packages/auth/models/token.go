package models

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by login and week unlock.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // secondes
	TokenType   string `json:"token_type"`
	Week        string `json:"week,omitempty"`
}
