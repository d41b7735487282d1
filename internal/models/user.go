package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"`
	FirstName   string             `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName    string             `json:"last_name,omitempty" bson:"last_name,omitempty"`
	IsStaff     bool               `json:"is_staff" bson:"is_staff"`
	IsSuperuser bool               `json:"is_superuser" bson:"is_superuser"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	DateJoined  time.Time          `json:"date_joined" bson:"date_joined"`
	LastLogin   *time.Time         `json:"last_login,omitempty" bson:"last_login,omitempty"`
}

// UserSummary is the user payload embedded in login responses.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID.Hex(),
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}
