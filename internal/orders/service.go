package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkgAuth "github.com/snackstand/snackstand-backend/pkg/auth"
	"github.com/snackstand/snackstand-backend/pkg/dates"
	"github.com/snackstand/snackstand-backend/pkg/db/models"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

const latestOrdersLimit = 10

// Service exposes order reads and the owner-driven status lifecycle.
type Service interface {
	Status(ctx context.Context, principal pkgAuth.Principal, orderID uint) (*OrderView, error)
	LatestOrders(ctx context.Context, customerID uint) ([]OrderView, error)
	GetOrder(ctx context.Context, principal pkgAuth.Principal, orderID uint) (*OrderDetail, error)
	TodaysOrders(ctx context.Context, statusFilter string) ([]OrderDetail, error)
	TodaysPayments(ctx context.Context) ([]PaymentView, error)
	SetOrderStatus(ctx context.Context, orderID uint, status enums.OrderStatus) error
	SetPaymentStatus(ctx context.Context, paymentID uint, status enums.PaymentStatus) error
}

type service struct {
	repo Repository
	loc  *time.Location
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the orders service anchored to the store time zone.
func NewService(repo Repository, loc *time.Location, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, logg: logg, now: time.Now}, nil
}

func (s *service) Status(ctx context.Context, principal pkgAuth.Principal, orderID uint) (*OrderView, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(principal, order); err != nil {
		return nil, err
	}
	view := s.buildView(ctx, order)
	return &view, nil
}

func (s *service) LatestOrders(ctx context.Context, customerID uint) ([]OrderView, error) {
	if customerID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}

	from, to := dates.DayBounds(s.now(), s.loc)
	orders, err := s.repo.FindOrdersByCustomerBetween(ctx, customerID, from, to, latestOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, s.buildView(ctx, &orders[i]))
	}
	return views, nil
}

func (s *service) GetOrder(ctx context.Context, principal pkgAuth.Principal, orderID uint) (*OrderDetail, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(principal, order); err != nil {
		return nil, err
	}
	detail := s.buildDetail(ctx, order)
	return &detail, nil
}

func (s *service) TodaysOrders(ctx context.Context, statusFilter string) ([]OrderDetail, error) {
	from, to := dates.DayBounds(s.now(), s.loc)
	orders, err := s.repo.FindOrdersBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	details := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		if statusFilter != "" && string(orders[i].Status) != statusFilter {
			continue
		}
		details = append(details, s.buildDetail(ctx, &orders[i]))
	}
	return details, nil
}

func (s *service) TodaysPayments(ctx context.Context) ([]PaymentView, error) {
	from, to := dates.DayBounds(s.now(), s.loc)
	payments, err := s.repo.FindPaymentsBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}

	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{
			PaymentID:   p.ID,
			OrderID:     p.OrderID,
			Mode:        string(p.Mode),
			Status:      string(p.Status),
			PaymentTime: p.PaymentTime,
		})
	}
	return views, nil
}

// SetOrderStatus overwrites the status without transition checks. The owner
// corrects mistakes by moving an order to any lifecycle state.
func (s *service) SetOrderStatus(ctx context.Context, orderID uint, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	previous := order.Status
	order.Status = status
	if err := s.repo.SaveOrder(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID,
			"from":     string(previous),
			"to":       string(status),
		})
		s.logg.Info(logCtx, "order.status.changed")
	}
	return nil
}

func (s *service) SetPaymentStatus(ctx context.Context, paymentID uint, status enums.PaymentStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	payment, err := s.repo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}

	previous := payment.Status
	payment.Status = status
	if err := s.repo.SavePayment(ctx, payment); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"payment_id": paymentID,
			"from":       string(previous),
			"to":         string(status),
		})
		s.logg.Info(logCtx, "payment.status.changed")
	}
	return nil
}

func (s *service) loadOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// authorize lets the owner read any order; customers only their own. Orders
// detached from a deleted account stay owner-only.
func (s *service) authorize(principal pkgAuth.Principal, order *models.Order) error {
	if principal.IsOwner() {
		return nil
	}
	if order.CustomerID != nil && *order.CustomerID == principal.CustomerID && principal.CustomerID != 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
}

func (s *service) buildView(ctx context.Context, order *models.Order) OrderView {
	view := OrderView{
		OrderID:   order.ID,
		Status:    string(order.Status),
		Price:     order.Price,
		OrderTime: order.OrderTime,
	}
	if payment, err := s.repo.LatestPaymentForOrder(ctx, order.ID); err == nil && payment != nil {
		status := string(payment.Status)
		mode := string(payment.Mode)
		view.PaymentStatus = &status
		view.PaymentMode = &mode
	}
	return view
}

func (s *service) buildDetail(ctx context.Context, order *models.Order) OrderDetail {
	detail := OrderDetail{
		OrderView:  s.buildView(ctx, order),
		CustomerID: order.CustomerID,
		Items:      []OrderLine{},
	}
	for _, item := range order.Items {
		line := OrderLine{SnackID: item.SnackID, Quantity: item.Quantity}
		if item.Snack != nil {
			line.Name = item.Snack.Name
		}
		detail.Items = append(detail.Items, line)
	}
	return detail
}
