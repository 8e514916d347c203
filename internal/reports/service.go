package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/snackstand/snackstand-backend/pkg/dates"
	"github.com/snackstand/snackstand-backend/pkg/enums"
	pkgerrors "github.com/snackstand/snackstand-backend/pkg/errors"
	"github.com/snackstand/snackstand-backend/pkg/logger"
)

const (
	defaultSeriesDays = 7
	maxSeriesDays     = 92
	popularSnackLimit = 10
	recentOrdersLimit = 6
)

// Dashboard is the owner landing summary, scoped to the local day.
type Dashboard struct {
	TotalCustomers    int64         `json:"total_customers"`
	TotalSnacks       int64         `json:"total_snacks"`
	CompletedOrders   int64         `json:"completed_orders_today"`
	CompletedPayments int64         `json:"completed_payments_today"`
	TodayRevenue      int           `json:"today_revenue"`
	RecentOrders      []RecentOrder `json:"recent_orders"`
}

// RecentOrder is a compact listing row for the dashboard.
type RecentOrder struct {
	OrderID   uint      `json:"order_id"`
	Status    string    `json:"status"`
	Price     int       `json:"price"`
	OrderTime time.Time `json:"order_time"`
}

// RevenuePoint is one day of the revenue series.
type RevenuePoint struct {
	Date    string `json:"date"`
	Revenue int    `json:"revenue"`
}

// Service computes owner-facing aggregates.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	// RevenueSeries returns per-day completed-payment revenue for [from, to],
	// defaulting to the last seven local days.
	RevenueSeries(ctx context.Context, from, to *time.Time) ([]RevenuePoint, error)
	PopularSnacks(ctx context.Context) ([]PopularSnack, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the reports service anchored to the store time zone.
func NewService(repo Repository, loc *time.Location, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, logg: logg, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	from, to := dates.DayBounds(s.now(), s.loc)

	customers, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}
	snacks, err := s.repo.CountSnacks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count snacks")
	}
	completedOrders, err := s.repo.CountOrdersWithStatusBetween(ctx, enums.OrderStatusCompleted, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count completed orders")
	}
	completedPayments, err := s.repo.CountPaymentsWithStatusBetween(ctx, enums.PaymentStatusCompleted, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count completed payments")
	}
	revenue, err := s.repo.RevenueBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	recent, err := s.repo.RecentOrdersBetween(ctx, from, to, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders")
	}

	dashboard := &Dashboard{
		TotalCustomers:    customers,
		TotalSnacks:       snacks,
		CompletedOrders:   completedOrders,
		CompletedPayments: completedPayments,
		TodayRevenue:      revenue,
		RecentOrders:      []RecentOrder{},
	}
	for _, order := range recent {
		dashboard.RecentOrders = append(dashboard.RecentOrders, RecentOrder{
			OrderID:   order.ID,
			Status:    string(order.Status),
			Price:     order.Price,
			OrderTime: order.OrderTime,
		})
	}
	return dashboard, nil
}

func (s *service) RevenueSeries(ctx context.Context, from, to *time.Time) ([]RevenuePoint, error) {
	today := s.now().In(s.loc)
	end := today
	start := today.AddDate(0, 0, -(defaultSeriesDays - 1))
	if from != nil {
		start = from.In(s.loc)
	}
	if to != nil {
		end = to.In(s.loc)
	}
	if start.After(end) {
		start, end = end, start
	}

	startDay, _ := dates.DayBounds(start, s.loc)
	endDay, _ := dates.DayBounds(end, s.loc)
	days := int(endDay.Sub(startDay).Hours()/24) + 1
	if days > maxSeriesDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range too large").
			WithDetails(map[string]any{"max_days": maxSeriesDays})
	}

	series := make([]RevenuePoint, 0, days)
	for cursor := startDay; !cursor.After(endDay); cursor = cursor.AddDate(0, 0, 1) {
		dayStart, dayEnd := dates.DayBounds(cursor, s.loc)
		revenue, err := s.repo.RevenueBetween(ctx, dayStart, dayEnd)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum daily revenue")
		}
		series = append(series, RevenuePoint{
			Date:    cursor.Format("2006-01-02"),
			Revenue: revenue,
		})
	}
	return series, nil
}

func (s *service) PopularSnacks(ctx context.Context) ([]PopularSnack, error) {
	rows, err := s.repo.PopularSnacks(ctx, popularSnackLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank snacks")
	}
	return rows, nil
}
