package ports

import "context"

// DashboardStats are the per-user counters shown on the dashboard.
type DashboardStats struct {
	ActiveBorrowings int
	DueSoon          int
	TotalRead        int
}

// Dashboard is the aggregated per-user view. Activity is ordered
// most-recently-fetched-first (reversed insertion order, not a timestamp
// sort).
type Dashboard struct {
	Stats    DashboardStats
	Activity []string
}

// DashboardService derives the dashboard from a principal's borrowings.
type DashboardService interface {
	Summary(ctx context.Context, user string) (*Dashboard, error)
}
