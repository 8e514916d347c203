package models

import (
	"time"

	"github.com/snackstand/snackstand-backend/pkg/enums"
)

// Order is the immutable snapshot of a completed checkout; only the status
// changes after creation. CustomerID is nullable so order history survives
// account deletion.
type Order struct {
	ID         uint              `gorm:"column:id;primaryKey"`
	CustomerID *uint             `gorm:"column:customer_id;index"`
	OrderTime  time.Time         `gorm:"column:order_time;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;size:50;not null;default:'Pending'"`
	Price      int               `gorm:"column:price;not null;default:0"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments   []Payment         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
