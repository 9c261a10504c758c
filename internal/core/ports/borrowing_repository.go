package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// BorrowingRepository defines persistence operations for borrowings.
type BorrowingRepository interface {
	Create(ctx context.Context, b *domain.Borrowing) error
	// FindByID retrieves a borrowing scoped to its owner. A borrowing that
	// exists but belongs to another user reads as not found.
	FindByID(ctx context.Context, id, user string) (*domain.Borrowing, error)
	// FindByUser returns all borrowings for a principal in insertion order.
	FindByUser(ctx context.Context, user string) ([]*domain.Borrowing, error)
	UpdateFine(ctx context.Context, id string, fine int) error
	// MarkReturned flips an active borrowing to returned with a status guard,
	// so a lost race returns domain.ErrAlreadyReturned instead of applying
	// the transition twice.
	MarkReturned(ctx context.Context, id, user, returnDate string) error
	// ActiveUsers lists the distinct principals holding active borrowings.
	ActiveUsers(ctx context.Context) ([]string, error)
}
