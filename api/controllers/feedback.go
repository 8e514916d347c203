package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snackstand/snackstand-backend/api/middleware"
	"github.com/snackstand/snackstand-backend/api/responses"
	"github.com/snackstand/snackstand-backend/api/validators"
	"github.com/snackstand/snackstand-backend/internal/feedback"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

type feedbackPayload struct {
	Rating  *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Content string `json:"content" validate:"required"`
}

// FeedbackSubmit records a customer note, clipping oversized content.
func FeedbackSubmit(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		customerID := middleware.CustomerIDFromContext(ctx)

		var payload feedbackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entry, err := svc.Submit(ctx, feedback.SubmitInput{
			CustomerID: customerID,
			Rating:     payload.Rating,
			Content:    payload.Content,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

func FeedbackList(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		entries, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func FeedbackDelete(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUint(chi.URLParam(r, "feedbackId"), "feedbackId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
