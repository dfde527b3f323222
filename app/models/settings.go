package models

import (
	"time"

	"gorm.io/gorm"
)

// SiteSettings is the authoritative contact configuration.
type SiteSettings struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	PhoneNumber string    `gorm:"size:50;not null" json:"phoneNumber"`
	ZaloNumber  string    `gorm:"size:50;not null" json:"zaloNumber"`
	FacebookURL string    `gorm:"size:1024;not null" json:"facebookUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `gorm:"index" json:"updatedAt"`
}

func (SiteSettings) TableName() string { return "site_settings" }

func (Setting) TableName() string { return "settings" }

func (s *SiteSettings) BeforeCreate(*gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

// Setting is a row of the legacy key/value table, kept in sync on writes.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:setting_key;size:100;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"column:setting_value;type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Legacy setting keys.
const (
	SettingPhone    = "phoneNumber"
	SettingZalo     = "zaloNumber"
	SettingFacebook = "facebookUrl"
)
