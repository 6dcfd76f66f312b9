package models

import "time"

// User represents the user model in the database. Users sign in either with
// email and password or with a Google account; GoogleID is set for the
// latter and Password may then be empty.
type User struct {
	Base
	Email               string        `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password            string        `json:"-"`
	GoogleID            *string       `gorm:"size:64;uniqueIndex" json:"-"`
	Name                string        `gorm:"size:255" json:"name"`
	Picture             string        `gorm:"size:512" json:"picture,omitempty"`
	IsActive            bool          `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string        `gorm:"size:64" json:"-"`
	FailedLoginAttempts int           `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time    `json:"-"`
	LastLoginAt         *time.Time    `json:"last_login_at,omitempty"`
	Transactions        []Transaction `gorm:"foreignKey:UserID" json:"-"`
}
