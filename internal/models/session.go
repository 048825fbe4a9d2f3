package models

// Session is a short-lived login session backed by the cache store. Expiry is
// enforced by the store's TTL; validation never slides the TTL, refresh resets
// it to the configured window.
type Session struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Role      Role   `json:"role"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token and session metadata.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      string `json:"user_id"`
	Role        Role   `json:"role"`
}
