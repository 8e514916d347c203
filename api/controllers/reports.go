package controllers

import (
	"net/http"
	"time"

	"github.com/snackstand/snackstand-backend/api/responses"
	"github.com/snackstand/snackstand-backend/internal/reports"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

func ReportsDashboard(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dashboard, err := svc.Dashboard(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

// ReportsRevenue returns per-day revenue for ?from=YYYY-MM-DD&to=YYYY-MM-DD,
// defaulting to the last seven days.
func ReportsRevenue(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		from, err := parseDateParam(r.URL.Query().Get("from"), "from")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := parseDateParam(r.URL.Query().Get("to"), "to")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		series, err := svc.RevenueSeries(ctx, from, to)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, series)
	}
}

func ReportsPopularSnacks(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rows, err := svc.PopularSnacks(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func parseDateParam(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid date").
			WithDetails(map[string]any{"field": field, "expected": "YYYY-MM-DD"})
	}
	return &parsed, nil
}
