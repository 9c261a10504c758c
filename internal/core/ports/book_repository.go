package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// BookRepository defines persistence operations for catalog records.
//
// DecrementAvailable and IncrementAvailable must be atomic conditional
// updates: the decrement carries an availableCopies > 0 guard so two
// concurrent borrows of the last copy can never drive the count negative,
// and the increment is clamped so it never exceeds quantity.
type BookRepository interface {
	// Create inserts a book and returns its store-assigned id.
	Create(ctx context.Context, b *domain.Book) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// FindByTitle returns the first book with an exactly matching title.
	FindByTitle(ctx context.Context, title string) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Update(ctx context.Context, id string, b *domain.Book) error
	Delete(ctx context.Context, id string) error
	// DecrementAvailable reserves one copy; domain.ErrBookUnavailable when
	// no copies are left.
	DecrementAvailable(ctx context.Context, id string) error
	// IncrementAvailable releases one copy, clamped at quantity.
	IncrementAvailable(ctx context.Context, id string) error
}
