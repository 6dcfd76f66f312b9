package models

// UserSettings stores a user's chart-of-accounts overrides and category lists
// as JSON documents. Either column may be empty, meaning defaults.
type UserSettings struct {
	Base
	UserID         string `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	AccountConfig  string `gorm:"type:text" json:"account_config"`
	CategoryConfig string `gorm:"type:text" json:"category_config"`
}
