package models

import "time"

const (
	RoleStudent   = "student"
	RoleAdmin     = "admin"
	RoleCounselor = "counselor"
)

// User is the profile snapshot returned by the backend. It is rebuilt on
// every profile fetch and never mutated in place.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Username      string `json:"username,omitempty"`
	University    string `json:"university,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"is_email_verified"`
}

// DeviceTokens holds the persisted token pair for one device.
type DeviceTokens struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DeviceID     string    `gorm:"uniqueIndex;not null"     json:"device_id"`
	AccessToken  string    `gorm:"not null"                 json:"-"`
	RefreshToken string    `gorm:"not null"                 json:"-"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Resource is a wellness resource document indexed for search.
type Resource struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
}
