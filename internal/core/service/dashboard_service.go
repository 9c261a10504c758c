package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// DashboardService aggregates a principal's borrowings into the dashboard
// view. It owns no state of its own.
type DashboardService struct {
	borrowings  ports.BorrowingRepository
	dueSoonDays int
	logger      zerolog.Logger
	now         func() time.Time
}

func NewDashboardService(borrowings ports.BorrowingRepository, dueSoonDays int, logger zerolog.Logger) *DashboardService {
	if dueSoonDays <= 0 {
		dueSoonDays = DefaultLoanPolicy.DueSoonDays
	}
	return &DashboardService{
		borrowings:  borrowings,
		dueSoonDays: dueSoonDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Summary derives the stats and activity log. The activity log is the
// retrieval order reversed, not a timestamp sort, so it reads as
// most-recently-fetched-first.
func (s *DashboardService) Summary(ctx context.Context, user string) (*ports.Dashboard, error) {
	records, err := s.borrowings.FindByUser(ctx, user)
	if err != nil {
		return nil, err
	}

	today := s.now()
	d := &ports.Dashboard{}
	activities := make([]string, 0, len(records))

	for _, b := range records {
		switch {
		case b.Status == domain.StatusActive:
			d.Stats.ActiveBorrowings++
			if days, ok := b.DaysUntilDue(today); ok && days >= 0 && days <= s.dueSoonDays {
				d.Stats.DueSoon++
			}
			activities = append(activities, fmt.Sprintf("Borrowed: %s on %s", b.BookTitle, b.DueDate))
		case b.Status == domain.StatusReturned && b.ReturnDate != "":
			d.Stats.TotalRead++
			activities = append(activities, fmt.Sprintf("Returned: %s on %s", b.BookTitle, b.ReturnDate))
		}
	}

	for i := len(activities) - 1; i >= 0; i-- {
		d.Activity = append(d.Activity, activities[i])
	}
	return d, nil
}
