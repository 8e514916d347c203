package models

import "time"

// Cart is a customer's in-progress selection. At most one cart should exist
// per customer; duplicates from legacy data are merged on access.
type Cart struct {
	ID         uint       `gorm:"column:id;primaryKey"`
	CustomerID uint       `gorm:"column:customer_id;not null;index"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
