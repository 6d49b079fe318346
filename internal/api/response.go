// Package api defines the JSON envelopes shared by every HTTP handler.
package api

// MessageResponse is the body for confirmations and for every error response.
// Clients only ever see a generic message; details stay in the server log.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}
