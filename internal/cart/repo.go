package cart

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snackstand/snackstand-backend/pkg/db/models"
)

// Repository is the persistence surface for carts and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindCartsByCustomer(ctx context.Context, customerID uint) ([]models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	DeleteCarts(ctx context.Context, ids []uint) error
	DeleteCartsByCustomer(ctx context.Context, customerID uint) error

	FindItem(ctx context.Context, cartID, snackID uint) (*models.CartItem, error)
	UpsertItem(ctx context.Context, cartID, snackID uint, qty int) error
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, itemID uint) error
	DeleteItemsByCart(ctx context.Context, cartID uint) error
	ListItems(ctx context.Context, cartID uint) ([]models.CartItem, error)
	SumQuantities(ctx context.Context, cartID uint) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCartsByCustomer(ctx context.Context, customerID uint) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *repository) CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *repository) DeleteCarts(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.Cart{}, ids).Error
}

func (r *repository) DeleteCartsByCustomer(ctx context.Context, customerID uint) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.Cart{}).Error
}

func (r *repository) FindItem(ctx context.Context, cartID, snackID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND snack_id = ?", cartID, snackID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertItem adds qty to an existing line or inserts a new one. The unique
// (cart_id, snack_id) index makes the conflict target safe on both dialects.
func (r *repository) UpsertItem(ctx context.Context, cartID, snackID uint, qty int) error {
	item := models.CartItem{CartID: cartID, SnackID: snackID, Quantity: qty}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "snack_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("quantity + ?", qty),
			}),
		}).
		Create(&item).Error
}

func (r *repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, itemID).Error
}

func (r *repository) DeleteItemsByCart(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

func (r *repository) ListItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Snack").
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) SumQuantities(ctx context.Context, cartID uint) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
