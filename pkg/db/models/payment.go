package models

import (
	"time"

	"github.com/snackstand/snackstand-backend/pkg/enums"
)

// Payment records a settlement attempt for an order. An order may accumulate
// several payment rows; the most recent by PaymentTime is authoritative.
type Payment struct {
	ID          uint                `gorm:"column:id;primaryKey"`
	OrderID     uint                `gorm:"column:order_id;not null;index"`
	Mode        enums.PaymentMode   `gorm:"column:mode;size:50;not null"`
	Status      enums.PaymentStatus `gorm:"column:status;size:50;not null;default:'Pending'"`
	PaymentTime time.Time           `gorm:"column:payment_time;not null;index"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
