package models

import "time"

// OrderItem is the permanent historical line of an order. The unit price is
// not duplicated here; the order carries the total computed at confirmation.
type OrderItem struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	OrderID   uint      `gorm:"column:order_id;not null;index"`
	SnackID   uint      `gorm:"column:snack_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	Snack     *Snack    `gorm:"foreignKey:SnackID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
