package service

import (
	"context"
	"testing"
	"time"

	"github.com/openshelf/library-system/internal/core/domain"
)

func newDashboardFixture() (*DashboardService, *stubBorrowingRepo) {
	borrowings := newStubBorrowingRepo()
	svc := NewDashboardService(borrowings, DefaultLoanPolicy.DueSoonDays, discardLogger)
	svc.now = func() time.Time { return testToday }
	return svc, borrowings
}

func TestDashboard_Empty(t *testing.T) {
	svc, _ := newDashboardFixture()

	d, err := svc.Summary(context.Background(), reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.ActiveBorrowings != 0 || d.Stats.DueSoon != 0 || d.Stats.TotalRead != 0 {
		t.Errorf("expected zeroed stats, got %+v", d.Stats)
	}
	if len(d.Activity) != 0 {
		t.Errorf("expected empty activity, got %v", d.Activity)
	}
}

func TestDashboard_Stats(t *testing.T) {
	svc, borrowings := newDashboardFixture()
	ctx := context.Background()
	_ = borrowings.Create(ctx, &domain.Borrowing{
		ID: "b1", User: reader, BookTitle: "Dune", DueDate: isoDate(2), Status: domain.StatusActive,
	})
	_ = borrowings.Create(ctx, &domain.Borrowing{
		ID: "b2", User: reader, BookTitle: "Emma", DueDate: isoDate(10), Status: domain.StatusActive,
	})
	_ = borrowings.Create(ctx, &domain.Borrowing{
		ID: "b3", User: reader, BookTitle: "Hamlet", DueDate: isoDate(-20),
		ReturnDate: isoDate(-15), Status: domain.StatusReturned,
	})
	// Another reader's borrowing never leaks into the summary.
	_ = borrowings.Create(ctx, &domain.Borrowing{
		ID: "b4", User: "other@example.com", BookTitle: "Ulysses", DueDate: isoDate(1), Status: domain.StatusActive,
	})

	d, err := svc.Summary(ctx, reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.ActiveBorrowings != 2 {
		t.Errorf("expected 2 active, got %d", d.Stats.ActiveBorrowings)
	}
	if d.Stats.DueSoon != 1 {
		t.Errorf("expected 1 due soon, got %d", d.Stats.DueSoon)
	}
	if d.Stats.TotalRead != 1 {
		t.Errorf("expected 1 read, got %d", d.Stats.TotalRead)
	}
}

func TestDashboard_ActivityReversed(t *testing.T) {
	svc, borrowings := newDashboardFixture()
	ctx := context.Background()
	_ = borrowings.Create(ctx, &domain.Borrowing{
		ID: "b1", User: reader, BookTitle: "Dune", DueDate: "2025-01-20", Status: domain.StatusActive,
	})
	_ = borrowings.Create(ctx, &domain.Borrowing{
		ID: "b2", User: reader, BookTitle: "Emma", DueDate: "2024-12-01",
		ReturnDate: "2024-12-15", Status: domain.StatusReturned,
	})

	d, err := svc.Summary(ctx, reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"Returned: Emma on 2024-12-15",
		"Borrowed: Dune on 2025-01-20",
	}
	if len(d.Activity) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), d.Activity)
	}
	for i := range want {
		if d.Activity[i] != want[i] {
			t.Errorf("activity[%d]: expected %q, got %q", i, want[i], d.Activity[i])
		}
	}
}

func TestDashboard_DueSoonHandlesDottedDates(t *testing.T) {
	svc, borrowings := newDashboardFixture()
	ctx := context.Background()
	due := testToday.AddDate(0, 0, 1).Format("02.01.2006")
	_ = borrowings.Create(ctx, &domain.Borrowing{
		ID: "b1", User: reader, BookTitle: "Dune", DueDate: due, Status: domain.StatusActive,
	})

	d, err := svc.Summary(ctx, reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.DueSoon != 1 {
		t.Errorf("dotted due date must count as due soon, got %d", d.Stats.DueSoon)
	}
}

func TestDashboard_OverdueNotDueSoon(t *testing.T) {
	svc, borrowings := newDashboardFixture()
	ctx := context.Background()
	_ = borrowings.Create(ctx, &domain.Borrowing{
		ID: "b1", User: reader, BookTitle: "Dune", DueDate: isoDate(-1), Status: domain.StatusActive,
	})

	d, err := svc.Summary(ctx, reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.ActiveBorrowings != 1 || d.Stats.DueSoon != 0 {
		t.Errorf("overdue counts as active but not due soon, got %+v", d.Stats)
	}
}
