package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/snackstand/snackstand-backend/pkg/db/models"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

// SubmitInput carries a customer's feedback note.
type SubmitInput struct {
	CustomerID uint
	Rating     *int
	Content    string
}

// Service records and lists feedback. Listing and deleting are owner actions.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Feedback, error)
	List(ctx context.Context) ([]models.Feedback, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo      Repository
	maxLength int
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the feedback service. maxLength bounds the stored note.
func NewService(repo Repository, maxLength int, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("feedback repository required")
	}
	if maxLength <= 0 {
		maxLength = 350
	}
	return &service{repo: repo, maxLength: maxLength, logg: logg, now: time.Now}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Feedback, error) {
	if input.CustomerID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feedback content required")
	}
	// Oversized notes are clipped, not rejected.
	if runes := []rune(content); len(runes) > s.maxLength {
		content = string(runes[:s.maxLength])
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	entry := &models.Feedback{
		CustomerID:   input.CustomerID,
		Rating:       input.Rating,
		Content:      content,
		FeedbackTime: s.now(),
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create feedback")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "feedback_id", created.ID), "feedback.submitted")
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Feedback, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}
	return entries, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete feedback")
	}
	return nil
}
