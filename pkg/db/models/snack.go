package models

import "time"

// Snack is a catalog item. AvailableQty keeps the legacy double meaning:
// a value of 0 means the count is not tracked and stock checks are skipped.
type Snack struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;size:150;not null"`
	Price        int       `gorm:"column:price;not null;default:0"`
	AvailableQty int       `gorm:"column:available_qty;not null;default:0"`
	Image        *string   `gorm:"column:image;size:255"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
