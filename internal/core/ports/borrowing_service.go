package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// BorrowInput carries all data needed to borrow a book copy.
type BorrowInput struct {
	User    string
	BookID  string
	DueDate string
	// IdempotencyKey, when set, guards against duplicate submissions of the
	// same borrow request.
	IdempotencyKey string
}

// BorrowingView is the display-augmented read model for one borrowing.
// Fine is the amount owed right now: computed for overdue actives, the
// stored (frozen) amount otherwise.
type BorrowingView struct {
	ID         string
	BookID     string
	BookTitle  string
	User       string
	DueDate    string
	ReturnDate string
	Fine       int
	Status     string
}

// BorrowingList is the result of listing a principal's borrowings together
// with the derived due-soon / overdue notices.
type BorrowingList struct {
	Items   []BorrowingView
	Notices []string
}

// BorrowingService defines the borrowing-engine use cases.
type BorrowingService interface {
	Borrow(ctx context.Context, in BorrowInput) (*domain.Borrowing, error)
	// ListBorrowings is a pure read: it derives display state and notices
	// without persisting anything.
	ListBorrowings(ctx context.Context, user string) (*BorrowingList, error)
	// RefreshAccruals persists the current fine for every overdue active
	// borrowing of the principal and returns the overdue notices.
	RefreshAccruals(ctx context.Context, user string) ([]string, error)
	// Return transitions a borrowing to returned and restores the book's
	// availability.
	Return(ctx context.Context, user, borrowingID string) error
}
