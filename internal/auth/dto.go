package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
// Tenant is the firm slug; it disambiguates an email registered with several firms.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Tenant   string `json:"tenant,omitempty" validate:"omitempty,max=100"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutDTO optionally names the refresh token to revoke alongside the access token.
type LogoutDTO struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}
