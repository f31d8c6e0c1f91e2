package models

import (
	"time"

	"gorm.io/gorm"
)

// PageView is one page load. Rows are append-only: the core never updates
// or deletes them. CreatedAt doubles as the event timestamp.
type PageView struct {
	gorm.Model
	Page         string `gorm:"size:512;not null;index" json:"page"`
	UserID       string `gorm:"size:64"                 json:"user_id,omitempty"`
	UserEmail    string `gorm:"size:255"                json:"user_email,omitempty"`
	IPAddress    string `gorm:"size:64;index"           json:"ip_address,omitempty"`
	Country      string `gorm:"size:100;index"          json:"country,omitempty"`
	City         string `gorm:"size:100;index"          json:"city,omitempty"`
	Referrer     string `gorm:"size:512"                json:"referrer,omitempty"`
	DeviceType   string `gorm:"size:20;index"           json:"device_type,omitempty"` // mobile | tablet | desktop
	Browser      string `gorm:"size:50"                 json:"browser,omitempty"`
	OS           string `gorm:"size:50"                 json:"os,omitempty"`
	ScreenWidth  int    `json:"screen_width,omitempty"`
	ScreenHeight int    `json:"screen_height,omitempty"`
}

// UserAction is one tracked business event (registration, order placed, …).
// Append-only.
type UserAction struct {
	gorm.Model
	Action    string `gorm:"size:100;not null;index" json:"action"`
	UserID    string `gorm:"size:64"                 json:"user_id,omitempty"`
	UserEmail string `gorm:"size:255"                json:"user_email,omitempty"`
	Details   string `gorm:"type:text"               json:"details,omitempty"`
}

// UserSession is a recorded session summary, used only for UX metrics.
// A bounce is a session with exactly one page view and no further
// interaction.
type UserSession struct {
	gorm.Model
	StartTime time.Time `gorm:"not null" json:"start_time"`
	Duration  int       `gorm:"not null" json:"duration"` // seconds
	PageViews int       `gorm:"not null" json:"page_views"`
	IsBounce  bool      `gorm:"not null" json:"is_bounce"`
	UserEmail string    `gorm:"size:255" json:"user_email,omitempty"`
}
