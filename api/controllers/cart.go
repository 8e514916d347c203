package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snackstand/snackstand-backend/api/middleware"
	"github.com/snackstand/snackstand-backend/api/responses"
	"github.com/snackstand/snackstand-backend/api/validators"
	"github.com/snackstand/snackstand-backend/internal/cart"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

type addCartItemPayload struct {
	SnackID  uint `json:"snack_id" validate:"required,min=1"`
	Quantity int  `json:"quantity"`
}

type updateCartItemPayload struct {
	Action string `json:"action" validate:"required,oneof=increase decrease remove"`
}

// CartSummary returns the consolidated cart with line totals.
func CartSummary(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		customerID := middleware.CustomerIDFromContext(ctx)

		summary, err := svc.GetSummary(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CartCount returns the total item quantity, used for the cart badge.
func CartCount(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		customerID := middleware.CustomerIDFromContext(ctx)

		count, err := svc.Count(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": count})
	}
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		customerID := middleware.CustomerIDFromContext(ctx)

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.AddItem(ctx, customerID, payload.SnackID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "added"})
	}
}

func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		customerID := middleware.CustomerIDFromContext(ctx)

		snackID, err := validators.ParsePathUint(chi.URLParam(r, "snackId"), "snackId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		action, err := enums.ParseCartItemAction(payload.Action)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}

		if err := svc.UpdateItem(ctx, customerID, snackID, action); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
