package models

import (
	"time"

	"github.com/snackstand/snackstand-backend/pkg/enums"
)

// Customer represents the canonical identity entity. Orders deliberately
// survive account deletion: the association nulls the customer reference
// instead of cascading.
type Customer struct {
	ID           uint            `gorm:"column:id;primaryKey"`
	Name         string          `gorm:"column:name;size:100;not null"`
	Email        string          `gorm:"column:email;size:100;not null;uniqueIndex"`
	Mobile       string          `gorm:"column:mobile;size:10;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.ActorRole `gorm:"column:role;size:20;not null;default:'customer'"`
	Carts        []Cart          `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Orders       []Order         `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	Feedbacks    []Feedback      `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
