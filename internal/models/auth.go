package models

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

type TokenVerifyRequest struct {
	Token string `json:"token"`
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordResetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// TokenPair is the payload returned by login and token refresh.
type TokenPair struct {
	Access    string       `json:"access"`
	Refresh   string       `json:"refresh"`
	ExpiresIn int64        `json:"expires_in"`
	TokenType string       `json:"token_type"`
	User      *UserSummary `json:"user,omitempty"`
}
