package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/snackstand/snackstand-backend/pkg/db/models"
)

// Repository is the persistence surface for orders and payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrderByID(ctx context.Context, id uint) (*models.Order, error)
	SaveOrder(ctx context.Context, order *models.Order) error
	FindOrdersByCustomerBetween(ctx context.Context, customerID uint, from, to time.Time, limit int) ([]models.Order, error)
	FindOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	DetachOrdersFromCustomer(ctx context.Context, customerID uint) error

	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindPaymentsBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error)
	FindPaymentByID(ctx context.Context, id uint) (*models.Payment, error)
	SavePayment(ctx context.Context, payment *models.Payment) error
	LatestPaymentForOrder(ctx context.Context, orderID uint) (*models.Payment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Snack").
		Preload("Payments").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) FindOrdersByCustomerBetween(ctx context.Context, customerID uint, from, to time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).
		Preload("Items.Snack").
		Where("customer_id = ? AND order_time >= ? AND order_time < ?", customerID, from, to).
		Order("order_time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Snack").
		Where("order_time >= ? AND order_time < ?", from, to).
		Order("order_time DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// DetachOrdersFromCustomer nulls the customer reference so order history
// survives account deletion.
func (r *repository) DetachOrdersFromCustomer(ctx context.Context, customerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ?", customerID).
		Update("customer_id", nil).Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindPaymentsBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("payment_time >= ? AND payment_time < ?", from, to).
		Order("payment_time DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) FindPaymentByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) SavePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// LatestPaymentForOrder returns the newest payment by payment time. Several
// payment rows can pile up on one order; the latest one is authoritative.
func (r *repository) LatestPaymentForOrder(ctx context.Context, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("payment_time DESC, id DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
