package orders

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pkgAuth "github.com/snackstand/snackstand-backend/pkg/auth"
	"github.com/snackstand/snackstand-backend/pkg/config"
	"github.com/snackstand/snackstand-backend/pkg/db"
	"github.com/snackstand/snackstand-backend/pkg/db/models"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

func setupOrdersTest(t *testing.T) (*db.Client, Repository, *service) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(models.All()...))

	repo := NewRepository(client.DB())
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, time.UTC, logg)
	require.NoError(t, err)

	return client, repo, svc.(*service)
}

func seedOrder(t *testing.T, client *db.Client, customerID *uint, status enums.OrderStatus, price int, at time.Time) *models.Order {
	t.Helper()
	order := &models.Order{CustomerID: customerID, Status: status, Price: price, OrderTime: at}
	require.NoError(t, client.DB().Create(order).Error)
	return order
}

func uintPtr(v uint) *uint { return &v }

func TestStatusCustomerReadsOwnOrder(t *testing.T) {
	client, repo, svc := setupOrdersTest(t)
	ctx := context.Background()

	order := seedOrder(t, client, uintPtr(4), enums.OrderStatusPreparing, 50, time.Now())
	_, err := repo.CreatePayment(ctx, &models.Payment{
		OrderID:     order.ID,
		Mode:        enums.PaymentModeCash,
		Status:      enums.PaymentStatusPending,
		PaymentTime: time.Now(),
	})
	require.NoError(t, err)

	view, err := svc.Status(ctx, pkgAuth.Principal{CustomerID: 4, Role: enums.ActorRoleCustomer}, order.ID)
	require.NoError(t, err)
	require.Equal(t, string(enums.OrderStatusPreparing), view.Status)
	require.NotNil(t, view.PaymentStatus)
	require.Equal(t, string(enums.PaymentStatusPending), *view.PaymentStatus)
}

func TestStatusForeignOrderForbidden(t *testing.T) {
	client, _, svc := setupOrdersTest(t)

	order := seedOrder(t, client, uintPtr(4), enums.OrderStatusPending, 50, time.Now())

	_, err := svc.Status(context.Background(), pkgAuth.Principal{CustomerID: 9, Role: enums.ActorRoleCustomer}, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestStatusOwnerReadsAnyOrder(t *testing.T) {
	client, _, svc := setupOrdersTest(t)

	order := seedOrder(t, client, nil, enums.OrderStatusCompleted, 80, time.Now())

	view, err := svc.Status(context.Background(), pkgAuth.Principal{CustomerID: 1, Role: enums.ActorRoleOwner}, order.ID)
	require.NoError(t, err)
	require.Equal(t, string(enums.OrderStatusCompleted), view.Status)
}

func TestStatusDetachedOrderHiddenFromCustomers(t *testing.T) {
	client, _, svc := setupOrdersTest(t)

	order := seedOrder(t, client, nil, enums.OrderStatusPending, 50, time.Now())

	_, err := svc.Status(context.Background(), pkgAuth.Principal{CustomerID: 4, Role: enums.ActorRoleCustomer}, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestStatusUnknownOrder(t *testing.T) {
	_, _, svc := setupOrdersTest(t)

	_, err := svc.Status(context.Background(), pkgAuth.Principal{CustomerID: 1, Role: enums.ActorRoleOwner}, 404)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestLatestOrdersScopedToLocalDay(t *testing.T) {
	client, _, svc := setupOrdersTest(t)

	fixed := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	today := seedOrder(t, client, uintPtr(4), enums.OrderStatusPending, 50, fixed.Add(-2*time.Hour))
	seedOrder(t, client, uintPtr(4), enums.OrderStatusCompleted, 70, fixed.AddDate(0, 0, -1))
	seedOrder(t, client, uintPtr(9), enums.OrderStatusPending, 20, fixed)

	views, err := svc.LatestOrders(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, today.ID, views[0].OrderID)
}

func TestTodaysOrdersStatusFilter(t *testing.T) {
	client, _, svc := setupOrdersTest(t)

	fixed := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	seedOrder(t, client, uintPtr(4), enums.OrderStatusPending, 50, fixed)
	ready := seedOrder(t, client, uintPtr(9), enums.OrderStatusReady, 30, fixed)

	all, err := svc.TodaysOrders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := svc.TodaysOrders(context.Background(), string(enums.OrderStatusReady))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, ready.ID, filtered[0].OrderID)
}

func TestSetOrderStatusOverwritesFreely(t *testing.T) {
	client, _, svc := setupOrdersTest(t)
	ctx := context.Background()

	order := seedOrder(t, client, uintPtr(4), enums.OrderStatusCompleted, 50, time.Now())

	// Any lifecycle state is reachable from any other, including backwards.
	require.NoError(t, svc.SetOrderStatus(ctx, order.ID, enums.OrderStatusPending))

	var after models.Order
	require.NoError(t, client.DB().First(&after, order.ID).Error)
	require.Equal(t, enums.OrderStatusPending, after.Status)
}

func TestSetOrderStatusRejectsUnknownValue(t *testing.T) {
	client, _, svc := setupOrdersTest(t)

	order := seedOrder(t, client, uintPtr(4), enums.OrderStatusPending, 50, time.Now())

	err := svc.SetOrderStatus(context.Background(), order.ID, enums.OrderStatus("Shipped"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetPaymentStatus(t *testing.T) {
	client, repo, svc := setupOrdersTest(t)
	ctx := context.Background()

	order := seedOrder(t, client, uintPtr(4), enums.OrderStatusPending, 50, time.Now())
	payment, err := repo.CreatePayment(ctx, &models.Payment{
		OrderID:     order.ID,
		Mode:        enums.PaymentModeCash,
		Status:      enums.PaymentStatusPending,
		PaymentTime: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetPaymentStatus(ctx, payment.ID, enums.PaymentStatusCompleted))

	var after models.Payment
	require.NoError(t, client.DB().First(&after, payment.ID).Error)
	require.Equal(t, enums.PaymentStatusCompleted, after.Status)
}

func TestSetPaymentStatusUnknownPayment(t *testing.T) {
	_, _, svc := setupOrdersTest(t)

	err := svc.SetPaymentStatus(context.Background(), 404, enums.PaymentStatusFailed)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestLatestPaymentWinsByPaymentTime(t *testing.T) {
	client, repo, svc := setupOrdersTest(t)
	ctx := context.Background()

	order := seedOrder(t, client, uintPtr(4), enums.OrderStatusPending, 50, time.Now())
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	_, err := repo.CreatePayment(ctx, &models.Payment{
		OrderID: order.ID, Mode: enums.PaymentModeCash,
		Status: enums.PaymentStatusFailed, PaymentTime: base,
	})
	require.NoError(t, err)
	_, err = repo.CreatePayment(ctx, &models.Payment{
		OrderID: order.ID, Mode: enums.PaymentModeCashless,
		Status: enums.PaymentStatusCompleted, PaymentTime: base.Add(time.Hour),
	})
	require.NoError(t, err)

	view, err := svc.Status(ctx, pkgAuth.Principal{CustomerID: 4, Role: enums.ActorRoleCustomer}, order.ID)
	require.NoError(t, err)
	require.NotNil(t, view.PaymentStatus)
	require.Equal(t, string(enums.PaymentStatusCompleted), *view.PaymentStatus)
	require.Equal(t, string(enums.PaymentModeCashless), *view.PaymentMode)
}
