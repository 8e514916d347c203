package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/snackstand/snackstand-backend/pkg/db/models"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

// CreateSnackInput carries the fields needed to add a catalog item.
type CreateSnackInput struct {
	Name         string
	Price        int
	AvailableQty int
	Image        *string
}

// UpdateSnackInput carries the mutable fields of a catalog item. Nil pointers
// leave the existing value untouched.
type UpdateSnackInput struct {
	Name         *string
	Price        *int
	AvailableQty *int
	Image        *string
}

// StockAdjustment restocks or drains a snack by a signed delta.
type StockAdjustment struct {
	SnackID uint
	Delta   int
}

// Service exposes catalog reads to everyone and writes to the owner.
type Service interface {
	List(ctx context.Context) ([]models.Snack, error)
	Get(ctx context.Context, id uint) (*models.Snack, error)
	Create(ctx context.Context, input CreateSnackInput) (*models.Snack, error)
	Update(ctx context.Context, id uint, input UpdateSnackInput) (*models.Snack, error)
	Delete(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, adj StockAdjustment) (*models.Snack, error)
	SeedIfEmpty(ctx context.Context) error
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]models.Snack, error) {
	snacks, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list snacks")
	}
	return snacks, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Snack, error) {
	snack, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "snack not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snack")
	}
	return snack, nil
}

func (s *service) Create(ctx context.Context, input CreateSnackInput) (*models.Snack, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snack name required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.AvailableQty < 0 {
		input.AvailableQty = 0
	}

	snack := &models.Snack{
		Name:         name,
		Price:        input.Price,
		AvailableQty: input.AvailableQty,
		Image:        input.Image,
	}
	created, err := s.repo.Create(ctx, snack)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create snack")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "snack_id", created.ID), "catalog.snack.created")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateSnackInput) (*models.Snack, error) {
	snack, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "snack name required")
		}
		snack.Name = name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		snack.Price = *input.Price
	}
	if input.AvailableQty != nil {
		qty := *input.AvailableQty
		if qty < 0 {
			qty = 0
		}
		snack.AvailableQty = qty
	}
	if input.Image != nil {
		snack.Image = input.Image
	}

	if err := s.repo.Save(ctx, snack); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update snack")
	}
	return snack, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete snack")
	}
	return nil
}

// AdjustStock applies a signed delta and clamps the result at zero, matching
// the decrement behavior used during checkout.
func (s *service) AdjustStock(ctx context.Context, adj StockAdjustment) (*models.Snack, error) {
	snack, err := s.Get(ctx, adj.SnackID)
	if err != nil {
		return nil, err
	}

	next := snack.AvailableQty + adj.Delta
	if next < 0 {
		next = 0
	}
	snack.AvailableQty = next

	if err := s.repo.Save(ctx, snack); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
	}
	return snack, nil
}

// SeedIfEmpty loads the default menu when the catalog has no rows yet.
func (s *service) SeedIfEmpty(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count snacks")
	}
	if count > 0 {
		return nil
	}

	for _, seed := range seedSnacks {
		image := seed.image
		snack := &models.Snack{
			Name:         seed.name,
			Price:        seed.price,
			AvailableQty: seedStockLevel,
			Image:        &image,
		}
		if _, err := s.repo.Create(ctx, snack); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed snacks")
		}
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "count", len(seedSnacks)), "catalog.seeded")
	}
	return nil
}
