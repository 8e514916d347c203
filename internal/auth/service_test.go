package auth

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/snackstand/snackstand-backend/internal/cart"
	"github.com/snackstand/snackstand-backend/internal/feedback"
	"github.com/snackstand/snackstand-backend/internal/orders"
	pkgAuth "github.com/snackstand/snackstand-backend/pkg/auth"
	"github.com/snackstand/snackstand-backend/pkg/config"
	"github.com/snackstand/snackstand-backend/pkg/db"
	"github.com/snackstand/snackstand-backend/pkg/db/models"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

type stubSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "rotated-" + oldAccessID, "refresh-rotated", nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

type accountsFixture struct {
	client   *db.Client
	sessions *stubSessions
	svc      Service
}

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTCfg = config.JWTConfig{
	Secret:            "unit-test-secret",
	Issuer:            "snackstand",
	ExpirationMinutes: 30,
}

func setupAccountsTest(t *testing.T, storeCfg config.StoreConfig) *accountsFixture {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(models.All()...))

	sessions := &stubSessions{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(
		NewRepository(client.DB()),
		cart.NewRepository(client.DB()),
		orders.NewRepository(client.DB()),
		feedback.NewRepository(client.DB()),
		client,
		sessions,
		testJWTCfg,
		testPasswordCfg,
		storeCfg,
		logg,
	)
	require.NoError(t, err)

	return &accountsFixture{client: client, sessions: sessions, svc: svc}
}

func registerCustomer(t *testing.T, svc Service, email, mobile string) *models.Customer {
	t.Helper()
	customer, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asha Kumar",
		Email:    email,
		Mobile:   mobile,
		Password: "sufficiently-long",
	})
	require.NoError(t, err)
	return customer
}

func TestRegisterNormalizesAndStores(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})

	customer, err := f.svc.Register(context.Background(), RegisterInput{
		Name:     " Asha Kumar ",
		Email:    "Asha@Example.COM",
		Mobile:   "9876543210",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "Asha Kumar", customer.Name)
	require.Equal(t, "asha@example.com", customer.Email)
	require.Equal(t, enums.ActorRoleCustomer, customer.Role)
	require.NotEqual(t, "password123", customer.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})
	ctx := context.Background()

	cases := []RegisterInput{
		{Name: "A", Email: "a@example.com", Mobile: "9876543210", Password: "password123"},
		{Name: "Asha 123", Email: "a@example.com", Mobile: "9876543210", Password: "password123"},
		{Name: "Asha", Email: "not-an-email", Mobile: "9876543210", Password: "password123"},
		{Name: "Asha", Email: "a@example.com", Mobile: "12345", Password: "password123"},
		{Name: "Asha", Email: "a@example.com", Mobile: "9876543210", Password: "short"},
	}
	for i, input := range cases {
		_, err := f.svc.Register(ctx, input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "case %d", i)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code(), "case %d", i)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})

	registerCustomer(t, f.svc, "asha@example.com", "9876543210")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Name:     "Someone Else",
		Email:    "asha@example.com",
		Mobile:   "9111111111",
		Password: "password123",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestLoginByEmailAndMobile(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})
	ctx := context.Background()

	customer := registerCustomer(t, f.svc, "asha@example.com", "9876543210")

	session, err := f.svc.Login(ctx, "asha@example.com", "sufficiently-long")
	require.NoError(t, err)
	require.Equal(t, customer.ID, session.CustomerID)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)

	session, err = f.svc.Login(ctx, "9876543210", "sufficiently-long")
	require.NoError(t, err)
	require.Equal(t, customer.ID, session.CustomerID)
}

func TestLoginWrongPassword(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})

	registerCustomer(t, f.svc, "asha@example.com", "9876543210")

	_, err := f.svc.Login(context.Background(), "asha@example.com", "wrong-password")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginUnknownIdentifier(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})

	_, err := f.svc.Login(context.Background(), "ghost@example.com", "whatever123")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})

	access, err := pkgAuth.MintAccessToken(testJWTCfg, time.Now(), pkgAuth.AccessTokenPayload{
		CustomerID: 5,
		Role:       enums.ActorRoleCustomer,
		JTI:        "session-1",
	})
	require.NoError(t, err)

	pair, err := f.svc.Refresh(context.Background(), access, "refresh-session-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.Equal(t, "refresh-rotated", pair.RefreshToken)

	claims, err := pkgAuth.ParseAccessToken(testJWTCfg, pair.AccessToken)
	require.NoError(t, err)
	require.EqualValues(t, 5, claims.CustomerID)
	require.Equal(t, "rotated-session-1", claims.ID)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})

	require.NoError(t, f.svc.Logout(context.Background(), "session-9"))
	require.Equal(t, []string{"session-9"}, f.sessions.revoked)
}

func TestDeleteAccountDetachesOrders(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})
	ctx := context.Background()

	customer := registerCustomer(t, f.svc, "asha@example.com", "9876543210")

	activeCart := &models.Cart{CustomerID: customer.ID}
	require.NoError(t, f.client.DB().Create(activeCart).Error)
	require.NoError(t, f.client.DB().Create(&models.CartItem{CartID: activeCart.ID, SnackID: 1, Quantity: 2}).Error)
	order := &models.Order{CustomerID: &customer.ID, Status: enums.OrderStatusCompleted, Price: 80, OrderTime: time.Now()}
	require.NoError(t, f.client.DB().Create(order).Error)
	require.NoError(t, f.client.DB().Create(&models.Feedback{CustomerID: customer.ID, Content: "tasty", FeedbackTime: time.Now()}).Error)

	principal := pkgAuth.Principal{CustomerID: customer.ID, Role: enums.ActorRoleCustomer}
	require.NoError(t, f.svc.DeleteAccount(ctx, principal, "session-1"))

	var customerCount, cartCount, itemCount, feedbackCount int64
	require.NoError(t, f.client.DB().Model(&models.Customer{}).Count(&customerCount).Error)
	require.NoError(t, f.client.DB().Model(&models.Cart{}).Count(&cartCount).Error)
	require.NoError(t, f.client.DB().Model(&models.CartItem{}).Count(&itemCount).Error)
	require.NoError(t, f.client.DB().Model(&models.Feedback{}).Count(&feedbackCount).Error)
	require.Zero(t, customerCount)
	require.Zero(t, cartCount)
	require.Zero(t, itemCount)
	require.Zero(t, feedbackCount)

	var survivor models.Order
	require.NoError(t, f.client.DB().First(&survivor, order.ID).Error)
	require.Nil(t, survivor.CustomerID)
	require.Equal(t, 80, survivor.Price)

	require.Equal(t, []string{"session-1"}, f.sessions.revoked)
}

func TestDeleteAccountForbiddenForOwner(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{})

	err := f.svc.DeleteAccount(context.Background(), pkgAuth.Principal{CustomerID: 1, Role: enums.ActorRoleOwner}, "")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestEnsureOwnerSeedsOnce(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{
		OwnerEmail:    "owner@snackstand.local",
		OwnerPassword: "owner-password",
	})
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureOwner(ctx))
	require.NoError(t, f.svc.EnsureOwner(ctx))

	var owners []models.Customer
	require.NoError(t, f.client.DB().Where("role = ?", enums.ActorRoleOwner).Find(&owners).Error)
	require.Len(t, owners, 1)
	require.Equal(t, "owner@snackstand.local", owners[0].Email)
}

func TestEnsureOwnerSkippedWithoutPassword(t *testing.T) {
	f := setupAccountsTest(t, config.StoreConfig{OwnerEmail: "owner@snackstand.local"})

	require.NoError(t, f.svc.EnsureOwner(context.Background()))

	var count int64
	require.NoError(t, f.client.DB().Model(&models.Customer{}).Count(&count).Error)
	require.Zero(t, count)
}
