package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/snackstand/snackstand-backend/pkg/db"
	"github.com/snackstand/snackstand-backend/pkg/db/models"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

// Line is one snack entry of a cart summary.
type Line struct {
	SnackID   uint   `json:"snack_id"`
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

// Summary is the customer-facing view of the consolidated cart.
type Summary struct {
	CartID uint   `json:"cart_id"`
	Lines  []Line `json:"items"`
	Total  int    `json:"total"`
}

// Service exposes the cart operations available to an authenticated customer.
type Service interface {
	// GetOrCreateCart returns the customer's single cart, healing duplicates
	// by merging every stray cart into the oldest one.
	GetOrCreateCart(ctx context.Context, customerID uint) (*models.Cart, error)
	AddItem(ctx context.Context, customerID, snackID uint, qty int) error
	UpdateItem(ctx context.Context, customerID, snackID uint, action enums.CartItemAction) error
	Count(ctx context.Context, customerID uint) (int, error)
	GetSummary(ctx context.Context, customerID uint) (*Summary, error)
}

type snackFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Snack, error)
}

type service struct {
	repo   Repository
	snacks snackFinder
	client *db.Client
	logg   *logger.Logger
}

// NewService builds the cart service.
func NewService(repo Repository, snacks snackFinder, client *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if snacks == nil {
		return nil, fmt.Errorf("snack finder required")
	}
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, snacks: snacks, client: client, logg: logg}, nil
}

func (s *service) GetOrCreateCart(ctx context.Context, customerID uint) (*models.Cart, error) {
	if customerID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}

	carts, err := s.repo.FindCartsByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load carts")
	}

	switch len(carts) {
	case 0:
		cart, err := s.repo.CreateCart(ctx, &models.Cart{CustomerID: customerID})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
		}
		return cart, nil
	case 1:
		return &carts[0], nil
	}

	// Legacy data may hold several carts for one customer. Merge everything
	// into the oldest cart so quantities are never lost.
	primary := carts[0]
	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var staleIDs []uint
		for _, stray := range carts[1:] {
			items, err := repo.ListItems(ctx, stray.ID)
			if err != nil {
				return err
			}
			for _, item := range items {
				if err := repo.UpsertItem(ctx, primary.ID, item.SnackID, item.Quantity); err != nil {
					return err
				}
			}
			if err := repo.DeleteItemsByCart(ctx, stray.ID); err != nil {
				return err
			}
			staleIDs = append(staleIDs, stray.ID)
		}
		return repo.DeleteCarts(ctx, staleIDs)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge carts")
	}

	if s.logg != nil {
		mergedCtx := s.logg.WithFields(ctx, map[string]any{
			"cart_id": primary.ID,
			"merged":  len(carts) - 1,
		})
		s.logg.Warn(mergedCtx, "cart.duplicates.merged")
	}
	return &primary, nil
}

func (s *service) AddItem(ctx context.Context, customerID, snackID uint, qty int) error {
	// Zero or negative quantities behave as "add one".
	if qty < 1 {
		qty = 1
	}

	if _, err := s.snacks.FindByID(ctx, snackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "snack not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snack")
	}

	cart, err := s.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return err
	}

	if err := s.repo.UpsertItem(ctx, cart.ID, snackID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return nil
}

func (s *service) UpdateItem(ctx context.Context, customerID, snackID uint, action enums.CartItemAction) error {
	if !action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item action")
	}

	cart, err := s.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindItem(ctx, cart.ID, snackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	switch action {
	case enums.CartItemActionIncrease:
		snack, err := s.snacks.FindByID(ctx, snackID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "snack not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snack")
		}
		// AvailableQty of 0 means the count is untracked; no ceiling applies.
		if snack.AvailableQty > 0 && item.Quantity >= snack.AvailableQty {
			return nil
		}
		item.Quantity++
		if err := s.repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}

	case enums.CartItemActionDecrease:
		item.Quantity--
		if item.Quantity <= 0 {
			if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
			}
			return nil
		}
		if err := s.repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}

	case enums.CartItemActionRemove:
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
	}

	return nil
}

func (s *service) Count(ctx context.Context, customerID uint) (int, error) {
	cart, err := s.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return 0, err
	}
	total, err := s.repo.SumQuantities(ctx, cart.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart items")
	}
	return total, nil
}

func (s *service) GetSummary(ctx context.Context, customerID uint) (*Summary, error) {
	cart, err := s.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	summary := &Summary{CartID: cart.ID, Lines: []Line{}}
	for _, item := range items {
		line := Line{
			SnackID:  item.SnackID,
			Quantity: item.Quantity,
		}
		if item.Snack != nil {
			line.Name = item.Snack.Name
			line.UnitPrice = item.Snack.Price
			line.LineTotal = item.Snack.Price * item.Quantity
		}
		summary.Total += line.LineTotal
		summary.Lines = append(summary.Lines, line)
	}
	return summary, nil
}
