package services

import (
	"fmt"
	"time"
)

// Errors returned by the LLM service, mapped to API status codes by the
// interview handlers.
var (
	ErrAITimeout        = fmt.Errorf("ai service timed out")
	ErrAIConnection     = fmt.Errorf("ai service unreachable")
	ErrAIAuthentication = fmt.Errorf("ai service authentication failed")
	ErrAIResponse       = fmt.Errorf("ai service returned an invalid response")
)

// AIRateLimitError carries the provider's retry hint.
type AIRateLimitError struct {
	RetryAfter time.Duration
}

func (e *AIRateLimitError) Error() string {
	return fmt.Sprintf("ai service rate limited, retry after %s", e.RetryAfter)
}

// Interview flow errors.
var (
	ErrJobNotFound        = fmt.Errorf("job not found")
	ErrInvalidJob         = fmt.Errorf("invalid job payload")
	ErrInterviewNotFound  = fmt.Errorf("interview not found")
	ErrInterviewCompleted = fmt.Errorf("interview already completed")
)

// Authentication flow errors.
var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserInactive       = fmt.Errorf("user inactive")
	ErrAccountLocked      = fmt.Errorf("account temporarily locked")
	ErrInvalidOTP         = fmt.Errorf("invalid or expired OTP")
)
