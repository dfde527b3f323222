// Package models holds the gorm models persisted by the storefront.
package models

import "github.com/google/uuid"

// newID returns a fresh primary key unless id is already set.
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// Product statuses.
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusOutOfStock = "out_of_stock"
)

// ValidStatus reports whether s is a known product status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusOutOfStock:
		return true
	}
	return false
}

// RoleAdmin is the only role allowed into the back office.
const RoleAdmin = "admin"
