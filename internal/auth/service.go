package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/snackstand/snackstand-backend/internal/cart"
	"github.com/snackstand/snackstand-backend/internal/feedback"
	"github.com/snackstand/snackstand-backend/internal/orders"
	pkgAuth "github.com/snackstand/snackstand-backend/pkg/auth"
	"github.com/snackstand/snackstand-backend/pkg/auth/session"
	"github.com/snackstand/snackstand-backend/pkg/config"
	"github.com/snackstand/snackstand-backend/pkg/db"
	"github.com/snackstand/snackstand-backend/pkg/db/models"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
	"github.com/snackstand/snackstand-backend/pkg/security"
)

var (
	nameRe   = regexp.MustCompile(`^[A-Za-z\s]{2,100}$`)
	mobileRe = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// RegisterInput carries a new customer signup.
type RegisterInput struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session bundles the authenticated identity with its tokens.
type Session struct {
	CustomerID uint            `json:"customer_id"`
	Name       string          `json:"name"`
	Role       enums.ActorRole `json:"role"`
	TokenPair
}

// Service owns account lifecycle and credential exchange.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Customer, error)
	Login(ctx context.Context, identifier, password string) (*Session, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
	// DeleteAccount removes the customer, their carts and feedback, and
	// detaches order history so it survives for the owner's books.
	DeleteAccount(ctx context.Context, principal pkgAuth.Principal, accessID string) error
	// EnsureOwner creates the administrative account on boot when missing.
	EnsureOwner(ctx context.Context) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo     Repository
	carts    cart.Repository
	orders   orders.Repository
	feedback feedback.Repository
	client   *db.Client
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	storeCfg config.StoreConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the accounts service.
func NewService(
	repo Repository,
	carts cart.Repository,
	orderRepo orders.Repository,
	feedbackRepo feedback.Repository,
	client *db.Client,
	sessions sessionManager,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	storeCfg config.StoreConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if feedbackRepo == nil {
		return nil, fmt.Errorf("feedback repository required")
	}
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:     repo,
		carts:    carts,
		orders:   orderRepo,
		feedback: feedbackRepo,
		client:   client,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		storeCfg: storeCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	mobile := strings.TrimSpace(input.Mobile)

	if !nameRe.MatchString(name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must contain only letters and spaces (2-100 characters)")
	}
	if !emailRe.MatchString(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if !mobileRe.MatchString(mobile) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mobile number must be exactly 10 digits")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	customer := &models.Customer{
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		PasswordHash: hash,
		Role:         enums.ActorRoleCustomer,
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or mobile already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithCustomerID(ctx, created.ID), "account.registered")
	}
	return created, nil
}

func (s *service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identifier and password required")
	}

	customer, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	ok, err := security.VerifyPassword(password, customer.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	pair, err := s.issueTokens(ctx, customer)
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithCustomerID(ctx, customer.ID), "account.login")
	}
	return &Session{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Role:       customer.Role,
		TokenPair:  *pair,
	}, nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	access, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		CustomerID: claims.CustomerID,
		Role:       claims.Role,
		JTI:        newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) DeleteAccount(ctx context.Context, principal pkgAuth.Principal, accessID string) error {
	if principal.CustomerID == 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if principal.IsOwner() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "owner account cannot be deleted")
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		customerID := principal.CustomerID
		cartRepo := s.carts.WithTx(tx)

		carts, err := cartRepo.FindCartsByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		for _, c := range carts {
			if err := cartRepo.DeleteItemsByCart(ctx, c.ID); err != nil {
				return err
			}
		}
		if err := cartRepo.DeleteCartsByCustomer(ctx, customerID); err != nil {
			return err
		}

		if err := s.orders.WithTx(tx).DetachOrdersFromCustomer(ctx, customerID); err != nil {
			return err
		}
		if err := s.feedback.WithTx(tx).DeleteByCustomer(ctx, customerID); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, customerID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete account")
	}

	if accessID != "" {
		if err := s.sessions.Revoke(ctx, accessID); err != nil && s.logg != nil {
			s.logg.Error(ctx, "revoke session after account deletion", err)
		}
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithCustomerID(ctx, principal.CustomerID), "account.deleted")
	}
	return nil
}

func (s *service) EnsureOwner(ctx context.Context) error {
	if s.storeCfg.OwnerPassword == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(s.storeCfg.OwnerEmail))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up owner account")
	}

	hash, err := security.HashPassword(s.storeCfg.OwnerPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash owner password")
	}

	owner := &models.Customer{
		Name:         "Owner",
		Email:        email,
		Mobile:       "0000000000",
		PasswordHash: hash,
		Role:         enums.ActorRoleOwner,
	}
	if _, err := s.repo.Create(ctx, owner); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create owner account")
	}

	if s.logg != nil {
		s.logg.Info(ctx, "owner account seeded")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, customer *models.Customer) (*TokenPair, error) {
	accessID := session.NewAccessID()
	access, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		CustomerID: customer.ID,
		Role:       customer.Role,
		JTI:        accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
