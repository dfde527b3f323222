package models

import (
	"time"

	"gorm.io/gorm"
)

type Brand struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Logo        *string   `gorm:"size:1024" json:"logo"`
	Description *string   `gorm:"type:text" json:"description"`
	Order       int       `gorm:"column:display_order;not null;index" json:"order"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b *Brand) BeforeCreate(*gorm.DB) error {
	b.ID = newID(b.ID)
	return nil
}

// Banner is a homepage hero image.
type Banner struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ImageURL  string    `gorm:"size:1024;not null" json:"imageUrl"`
	Title     *string   `gorm:"size:255" json:"title"`
	Link      *string   `gorm:"size:1024" json:"link"`
	Order     int       `gorm:"column:display_order;not null;index" json:"order"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Banner) BeforeCreate(*gorm.DB) error {
	b.ID = newID(b.ID)
	return nil
}
