package ports

import (
	"context"

	"github.com/openshelf/library-system/internal/core/domain"
)

// BookInput carries the librarian-editable fields of a catalog record.
type BookInput struct {
	Title       string
	Author      string
	ISBN        string
	Category    string
	Description string
	Quantity    int
}

// CatalogService defines the catalog-ledger use cases.
type CatalogService interface {
	// AddBook creates a book with availableCopies = quantity.
	AddBook(ctx context.Context, in BookInput) (*domain.Book, error)
	// EditBook overwrites descriptive fields and resets both quantity and
	// availableCopies to the submitted quantity.
	EditBook(ctx context.Context, id string, in BookInput) (*domain.Book, error)
	RemoveBook(ctx context.Context, id string) error
	// ListBooks returns books whose given field contains value
	// case-insensitively; an empty value returns the whole catalog.
	ListBooks(ctx context.Context, field, value string) ([]*domain.Book, error)
}
