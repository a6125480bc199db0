package reports

import (
	"context"
	"time"
)

// Repository answers aggregate questions over paid orders in a date
// range. The range is half-open: from inclusive, to exclusive.
type Repository interface {
	Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	TopItems(ctx context.Context, from, to time.Time, limit int) ([]ItemSales, error)
	ByCategory(ctx context.Context, from, to time.Time) ([]BreakdownRow, error)
	ByStaff(ctx context.Context, from, to time.Time) ([]BreakdownRow, error)
	ByTable(ctx context.Context, from, to time.Time) ([]BreakdownRow, error)
	ByPaymentMethod(ctx context.Context, from, to time.Time) ([]BreakdownRow, error)
	DailyTrend(ctx context.Context, from, to time.Time) ([]DailyPoint, error)
}
