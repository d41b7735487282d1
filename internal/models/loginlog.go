package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Login attempt outcomes.
const (
	LoginStatusSuccess = "success"
	LoginStatusFailed  = "failed"
	LoginStatusBlocked = "blocked"
)

// LoginLog records one authentication attempt, used for the lockout window.
type LoginLog struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    *primitive.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Username  string              `json:"username" bson:"username"`
	IPAddress string              `json:"ip_address" bson:"ip_address"`
	UserAgent string              `json:"user_agent" bson:"user_agent"`
	Status    string              `json:"status" bson:"status"`
	Message   string              `json:"message" bson:"message"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}

// BlacklistedToken is a revoked refresh token, kept until its natural expiry.
type BlacklistedToken struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	JTI       string             `json:"jti" bson:"jti"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
