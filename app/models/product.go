package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is an air-conditioner unit in the catalogue. Prices are whole
// currency units.
type Product struct {
	ID             string                      `gorm:"primaryKey;size:36" json:"id"`
	Slug           string                      `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Name           string                      `gorm:"size:255;not null" json:"name"`
	Description    string                      `gorm:"type:text" json:"description"`
	Price          int64                       `gorm:"not null;index" json:"price"`
	OriginalPrice  *int64                      `json:"originalPrice"`
	Brand          string                      `gorm:"size:100;not null;index" json:"brand"`
	Horsepower     string                      `gorm:"size:20;not null;index" json:"horsepower"`
	Inverter       bool                        `gorm:"not null" json:"inverter"`
	Images         datatypes.JSONSlice[string] `json:"images"`
	Specifications Specs                       `json:"specifications"`
	Benefits       datatypes.JSONSlice[string] `json:"benefits"`
	Status         string                      `gorm:"size:20;not null;index" json:"status"`
	Featured       bool                        `gorm:"not null;index" json:"featured"`
	CreatedAt      time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`

	// Lower-cased copies of Name and Description for substring search.
	SearchName string `gorm:"size:255;not null;default:''" json:"-"`
	SearchText string `gorm:"type:text" json:"-"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	p.ID = newID(p.ID)
	if p.Status == "" {
		p.Status = StatusActive
	}
	p.Normalize()
	return nil
}

// BeforeSave refreshes the search columns. Column-map updates run it on a
// blank model, which is left alone.
func (p *Product) BeforeSave(*gorm.DB) error {
	if p.Name != "" {
		p.Fold()
	}
	return nil
}

// Fold fills the search columns from Name and Description.
func (p *Product) Fold() {
	p.SearchName = FoldSearch(p.Name)
	p.SearchText = FoldSearch(p.Description)
}

// FoldSearch lower-cases s the same way for stored columns and search
// input, independent of the database's own LOWER.
func FoldSearch(s string) string {
	return strings.ToLower(s)
}

// Normalize replaces nil collections with empty ones so they encode as []
// and {} rather than null.
func (p *Product) Normalize() {
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.Benefits == nil {
		p.Benefits = datatypes.JSONSlice[string]{}
	}
	if p.Specifications == nil {
		p.Specifications = Specs{}
	}
}

// PrimaryImage is the first image, or "" when there are none.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Specs returns the specification rows, never nil.
func (p *Product) Specs() Specs {
	if p.Specifications != nil {
		return p.Specifications
	}
	return Specs{}
}
