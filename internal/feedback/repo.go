package feedback

import (
	"context"

	"gorm.io/gorm"

	"github.com/snackstand/snackstand-backend/pkg/db/models"
)

// Repository is the persistence surface for customer feedback.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.Feedback) (*models.Feedback, error)
	List(ctx context.Context) ([]models.Feedback, error)
	Delete(ctx context.Context, id uint) error
	DeleteByCustomer(ctx context.Context, customerID uint) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a feedback repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.Feedback) (*models.Feedback, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) List(ctx context.Context) ([]models.Feedback, error) {
	var entries []models.Feedback
	err := r.db.WithContext(ctx).
		Order("feedback_time DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Feedback{}, id).Error
}

func (r *repository) DeleteByCustomer(ctx context.Context, customerID uint) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.Feedback{}).Error
}
