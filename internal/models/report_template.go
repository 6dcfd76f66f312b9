package models

import "khatabook/internal/ledger"

// ReportViews toggles the sections a saved report shows.
type ReportViews struct {
	Summary       bool `json:"summary"`
	CategoryTable bool `json:"category_table"`
	AccountTable  bool `json:"account_table"`
	TrendChart    bool `json:"trend_chart"`
	DetailTable   bool `json:"detail_table"`
}

// DefaultReportViews enables every section.
func DefaultReportViews() ReportViews {
	return ReportViews{Summary: true, CategoryTable: true, AccountTable: true, TrendChart: true, DetailTable: true}
}

// ReportTemplate is a named, saved report configuration.
type ReportTemplate struct {
	Base
	UserID   string          `gorm:"size:36;not null;index" json:"user_id"`
	Name     string          `gorm:"size:100;not null" json:"name"`
	Criteria ledger.Criteria `gorm:"type:text;serializer:json" json:"criteria"`
	Views    ReportViews     `gorm:"type:text;serializer:json" json:"views"`
}
