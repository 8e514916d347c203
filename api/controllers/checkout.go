package controllers

import (
	"net/http"

	"github.com/snackstand/snackstand-backend/api/middleware"
	"github.com/snackstand/snackstand-backend/api/responses"
	"github.com/snackstand/snackstand-backend/api/validators"
	"github.com/snackstand/snackstand-backend/internal/checkout"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

type checkoutPayload struct {
	PaymentMode string `json:"payment_mode" validate:"required"`
}

// CheckoutConfirm turns the customer's cart into a placed order.
func CheckoutConfirm(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		customerID := middleware.CustomerIDFromContext(ctx)

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		mode, err := enums.ParsePaymentMode(payload.PaymentMode)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment mode"))
			return
		}

		result, err := svc.Confirm(ctx, customerID, mode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
