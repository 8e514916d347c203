package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/snackstand/snackstand-backend/pkg/db/models"
	"github.com/snackstand/snackstand-backend/pkg/enums"
)

// Repository aggregates order, payment, and catalog data for owner reports.
type Repository interface {
	CountCustomers(ctx context.Context) (int64, error)
	CountSnacks(ctx context.Context) (int64, error)
	CountOrdersWithStatusBetween(ctx context.Context, status enums.OrderStatus, from, to time.Time) (int64, error)
	CountPaymentsWithStatusBetween(ctx context.Context, status enums.PaymentStatus, from, to time.Time) (int64, error)
	// RevenueBetween sums order totals whose completed payments landed in the
	// interval.
	RevenueBetween(ctx context.Context, from, to time.Time) (int, error)
	RecentOrdersBetween(ctx context.Context, from, to time.Time, limit int) ([]models.Order, error)
	PopularSnacks(ctx context.Context, limit int) ([]PopularSnack, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

func (r *repository) CountSnacks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Snack{}).Count(&count).Error
	return count, err
}

func (r *repository) CountOrdersWithStatusBetween(ctx context.Context, status enums.OrderStatus, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ? AND order_time >= ? AND order_time < ?", status, from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) CountPaymentsWithStatusBetween(ctx context.Context, status enums.PaymentStatus, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ? AND payment_time >= ? AND payment_time < ?", status, from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) RevenueBetween(ctx context.Context, from, to time.Time) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("payments.status = ? AND payments.payment_time >= ? AND payments.payment_time < ?",
			enums.PaymentStatusCompleted, from, to).
		Select("COALESCE(SUM(orders.price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *repository) RecentOrdersBetween(ctx context.Context, from, to time.Time, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).
		Where("order_time >= ? AND order_time < ?", from, to).
		Order("order_time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// PopularSnack is an all-time sales aggregate per catalog item.
type PopularSnack struct {
	SnackID   uint   `json:"snack_id"`
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}

func (r *repository) PopularSnacks(ctx context.Context, limit int) ([]PopularSnack, error) {
	var rows []PopularSnack
	query := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN snacks ON snacks.id = order_items.snack_id").
		Select("snacks.id AS snack_id, snacks.name AS name, SUM(order_items.quantity) AS total_sold").
		Group("snacks.id, snacks.name").
		Order("total_sold DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
