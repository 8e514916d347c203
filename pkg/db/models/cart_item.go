package models

import "time"

// CartItem is one snack line inside a cart. Quantity is always >= 1; a line
// decremented to zero is deleted, never stored. The (cart_id, snack_id)
// unique index backs the upsert in the cart repository.
type CartItem struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	CartID    uint      `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_items_cart_snack"`
	SnackID   uint      `gorm:"column:snack_id;not null;uniqueIndex:idx_cart_items_cart_snack"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	Snack     *Snack    `gorm:"foreignKey:SnackID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
