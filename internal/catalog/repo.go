package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snackstand/snackstand-backend/pkg/db/models"
)

// Repository is the persistence surface for the snack catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, snack *models.Snack) (*models.Snack, error)
	Save(ctx context.Context, snack *models.Snack) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Snack, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Snack, error)
	// FindByIDsForUpdate acquires row locks on Postgres so concurrent
	// checkouts serialize on the same snacks. Rows come back ordered by id
	// to keep lock acquisition order stable.
	FindByIDsForUpdate(ctx context.Context, ids []uint) ([]models.Snack, error)
	List(ctx context.Context) ([]models.Snack, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, snack *models.Snack) (*models.Snack, error) {
	if err := r.db.WithContext(ctx).Create(snack).Error; err != nil {
		return nil, err
	}
	return snack, nil
}

func (r *repository) Save(ctx context.Context, snack *models.Snack) error {
	return r.db.WithContext(ctx).Save(snack).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Snack{}, id).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Snack, error) {
	var snack models.Snack
	if err := r.db.WithContext(ctx).First(&snack, id).Error; err != nil {
		return nil, err
	}
	return &snack, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uint) ([]models.Snack, error) {
	var snacks []models.Snack
	if len(ids) == 0 {
		return snacks, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&snacks).Error
	if err != nil {
		return nil, err
	}
	return snacks, nil
}

func (r *repository) FindByIDsForUpdate(ctx context.Context, ids []uint) ([]models.Snack, error) {
	var snacks []models.Snack
	if len(ids) == 0 {
		return snacks, nil
	}
	query := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC")
	// SQLite serializes writers on its own and rejects FOR UPDATE.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.Find(&snacks).Error; err != nil {
		return nil, err
	}
	return snacks, nil
}

func (r *repository) List(ctx context.Context) ([]models.Snack, error) {
	var snacks []models.Snack
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&snacks).Error; err != nil {
		return nil, err
	}
	return snacks, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Snack{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
