package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snackstand/snackstand-backend/api/responses"
	"github.com/snackstand/snackstand-backend/api/validators"
	"github.com/snackstand/snackstand-backend/internal/catalog"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

type createSnackPayload struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	Price        int     `json:"price" validate:"required,min=0"`
	AvailableQty int     `json:"available_qty" validate:"min=0"`
	Image        *string `json:"image,omitempty"`
}

type updateSnackPayload struct {
	Name         *string `json:"name,omitempty"`
	Price        *int    `json:"price,omitempty"`
	AvailableQty *int    `json:"available_qty,omitempty"`
	Image        *string `json:"image,omitempty"`
}

type adjustStockPayload struct {
	Delta int `json:"delta" validate:"required"`
}

// SnackList returns the full menu. Public, no auth required.
func SnackList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		snacks, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snacks)
	}
}

func SnackGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUint(chi.URLParam(r, "snackId"), "snackId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snack, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snack)
	}
}

func SnackCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createSnackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snack, err := svc.Create(ctx, catalog.CreateSnackInput{
			Name:         payload.Name,
			Price:        payload.Price,
			AvailableQty: payload.AvailableQty,
			Image:        payload.Image,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, snack)
	}
}

func SnackUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUint(chi.URLParam(r, "snackId"), "snackId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateSnackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snack, err := svc.Update(ctx, id, catalog.UpdateSnackInput{
			Name:         payload.Name,
			Price:        payload.Price,
			AvailableQty: payload.AvailableQty,
			Image:        payload.Image,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snack)
	}
}

func SnackDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUint(chi.URLParam(r, "snackId"), "snackId")
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

// SnackAdjustStock applies a signed delta to a snack's available quantity.
func SnackAdjustStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUint(chi.URLParam(r, "snackId"), "snackId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload adjustStockPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snack, err := svc.AdjustStock(ctx, catalog.StockAdjustment{SnackID: id, Delta: payload.Delta})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snack)
	}
}
