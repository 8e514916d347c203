package checkout

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/snackstand/snackstand-backend/internal/cart"
	"github.com/snackstand/snackstand-backend/internal/catalog"
	"github.com/snackstand/snackstand-backend/internal/orders"
	"github.com/snackstand/snackstand-backend/pkg/db"
	"github.com/snackstand/snackstand-backend/pkg/db/models"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
	"github.com/snackstand/snackstand-backend/pkg/metrics"
)

const (
	failureReasonIntegrity = "integrity"
	failureReasonStock     = "stock"
	failureReasonInternal  = "internal"
)

// ShortItem describes one cart line that stock cannot cover.
type ShortItem struct {
	SnackID   uint   `json:"snack_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// Result is returned after a successful confirmation.
type Result struct {
	OrderID       uint      `json:"order_id"`
	Status        string    `json:"status"`
	Total         int       `json:"total"`
	OrderTime     time.Time `json:"order_time"`
	PaymentID     uint      `json:"payment_id"`
	PaymentMode   string    `json:"payment_mode"`
	PaymentStatus string    `json:"payment_status"`
}

// Service turns a cart into an order atomically.
type Service interface {
	Confirm(ctx context.Context, customerID uint, mode enums.PaymentMode) (*Result, error)
}

type service struct {
	carts    cart.Service
	cartRepo cart.Repository
	snacks   catalog.Repository
	orders   orders.Repository
	client   *db.Client
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the checkout service with the required dependencies.
func NewService(
	carts cart.Service,
	cartRepo cart.Repository,
	snacks catalog.Repository,
	orderRepo orders.Repository,
	client *db.Client,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if snacks == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		carts:    carts,
		cartRepo: cartRepo,
		snacks:   snacks,
		orders:   orderRepo,
		client:   client,
		metrics:  checkoutMetrics,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Confirm validates the whole cart, then creates the order, its lines, the
// stock decrements, and the payment in one transaction. Either everything
// lands or nothing does.
func (s *service) Confirm(ctx context.Context, customerID uint, mode enums.PaymentMode) (*Result, error) {
	if customerID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if !mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment mode")
	}

	// Healing duplicate carts happens before the money transaction starts.
	activeCart, err := s.carts.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	start := s.now()
	var result *Result

	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		snackRepo := s.snacks.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		items, err := cartRepo.ListItems(ctx, activeCart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		ids := make([]uint, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.SnackID)
		}

		snacks, err := snackRepo.FindByIDsForUpdate(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock snacks")
		}
		snackByID := make(map[uint]*models.Snack, len(snacks))
		for i := range snacks {
			snackByID[snacks[i].ID] = &snacks[i]
		}

		// Validate the entire cart before touching any row.
		var missing []uint
		var short []ShortItem
		total := 0
		for _, item := range items {
			snack, ok := snackByID[item.SnackID]
			if !ok {
				missing = append(missing, item.SnackID)
				continue
			}
			if snack.AvailableQty > 0 && snack.AvailableQty < item.Quantity {
				short = append(short, ShortItem{
					SnackID:   snack.ID,
					Name:      snack.Name,
					Requested: item.Quantity,
					Available: snack.AvailableQty,
				})
			}
			total += snack.Price * item.Quantity
		}

		if len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeIntegrity, "cart references missing snacks").
				WithDetails(map[string]any{"missing_snack_ids": missing})
		}
		if len(short) > 0 {
			return pkgerrors.New(pkgerrors.CodeStock, "insufficient stock").
				WithDetails(map[string]any{"items": short})
		}

		status := enums.OrderStatusPending
		if mode == enums.PaymentModeCashless {
			status = enums.OrderStatusPaid
		}

		now := s.now()
		order, err := orderRepo.CreateOrder(ctx, &models.Order{
			CustomerID: &customerID,
			OrderTime:  now,
			Status:     status,
			Price:      total,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			orderItems = append(orderItems, models.OrderItem{
				OrderID:  order.ID,
				SnackID:  item.SnackID,
				Quantity: item.Quantity,
			})
		}
		if err := orderRepo.CreateOrderItems(ctx, orderItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		for _, item := range items {
			snack := snackByID[item.SnackID]
			if snack.AvailableQty <= 0 {
				continue
			}
			next := snack.AvailableQty - item.Quantity
			if next < 0 {
				next = 0
			}
			snack.AvailableQty = next
			if err := snackRepo.Save(ctx, snack); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
		}

		payment, err := orderRepo.CreatePayment(ctx, &models.Payment{
			OrderID:     order.ID,
			Mode:        mode,
			Status:      enums.PaymentStatusPending,
			PaymentTime: now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		if err := cartRepo.DeleteItemsByCart(ctx, activeCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		result = &Result{
			OrderID:       order.ID,
			Status:        string(order.Status),
			Total:         order.Price,
			OrderTime:     order.OrderTime,
			PaymentID:     payment.ID,
			PaymentMode:   string(payment.Mode),
			PaymentStatus: string(payment.Status),
		}
		return nil
	})

	if txErr != nil {
		s.metrics.IncFailure(failureReason(txErr))
		return nil, txErr
	}

	s.metrics.IncOrderCreated(string(mode))
	s.metrics.ObserveDuration(string(mode), s.now().Sub(start))

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": result.OrderID,
			"total":    result.Total,
			"mode":     result.PaymentMode,
		})
		s.logg.Info(logCtx, "checkout.confirmed")
	}
	return result, nil
}

func failureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return failureReasonInternal
	}
	switch typed.Code() {
	case pkgerrors.CodeIntegrity:
		return failureReasonIntegrity
	case pkgerrors.CodeStock:
		return failureReasonStock
	case pkgerrors.CodeValidation, pkgerrors.CodeUnauthorized:
		return string(typed.Code())
	default:
		return failureReasonInternal
	}
}
