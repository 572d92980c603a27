package model

import "time"

// User is the explicit schema for a user record. Nullable fields are
// pointers; flags are real booleans.
type User struct {
	UserID        string     `json:"userID"`
	Name          string     `json:"name"`
	PhotoURL      *string    `json:"photoURL"`
	Gender        string     `json:"gender"`
	DateOfBirth   string     `json:"dateOfBirth"`
	DateOfDeath   *string    `json:"dateOfDeath"`
	Address       *string    `json:"address"`
	Facebook      *string    `json:"facebook"`
	Instagram     *string    `json:"instagram"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone"`
	Mother        *string    `json:"mother"`
	Father        *string    `json:"father"`
	Documents     []string   `json:"documents"`
	Description   string     `json:"description"`
	IsUser        bool       `json:"isUser"`
	IsDeactivated bool       `json:"isDeactivated"`
	IsAdmin       bool       `json:"isAdmin"`
	CreatedAt     time.Time  `json:"createdAt"`
	DeactivatedAt *time.Time `json:"deactivatedAt"`
}

type NewUserRequest struct {
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	DateOfBirth     string `json:"dateOfBirth"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
