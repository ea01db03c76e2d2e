package auth

// LoginRequest represents the request to sign in with credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ForgotPasswordRequest represents the request to send a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SocialLoginRequest represents the request to sign in via a social provider
type SocialLoginRequest struct {
	Provider string `json:"provider" validate:"required,oneof=google github"`
}
