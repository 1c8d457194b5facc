package dto

import "time"

// SetTokenRequest is the body of PUT /api/token.
//
// @Description Bearer token the client sends upstream
// @Example {"token": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."}
type SetTokenRequest struct {
	Token string `json:"token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
} // @name SetTokenRequest

// TokenResponse describes an issued admin token.
//
// @Description Issued admin token
type TokenResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Subject   string    `json:"subject" example:"ops"`
	Roles     []string  `json:"roles,omitempty" example:"admin"`
	ExpiresAt time.Time `json:"expires_at" example:"2025-01-28T11:00:00Z"`
} // @name TokenResponse

// TokenStatusResponse reports whether the client holds an upstream token.
//
// @Description Upstream token status
type TokenStatusResponse struct {
	Present   bool       `json:"present"`
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
} // @name TokenStatusResponse
