package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

type CatalogService struct {
	repo   ports.BookRepository
	logger zerolog.Logger
}

func NewCatalogService(repo ports.BookRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// AddBook creates a catalog record with every copy available.
func (s *CatalogService) AddBook(ctx context.Context, in ports.BookInput) (*domain.Book, error) {
	if err := validateBookInput(in); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		ISBN:            strings.TrimSpace(in.ISBN),
		Category:        strings.TrimSpace(in.Category),
		Description:     strings.TrimSpace(in.Description),
		Quantity:        in.Quantity,
		AvailableCopies: in.Quantity,
	}

	id, err := s.repo.Create(ctx, book)
	if err != nil {
		s.logger.Error().Err(err).Str("title", book.Title).Msg("failed to create book")
		return nil, err
	}
	book.ID = id

	s.logger.Info().Str("book_id", id).Str("title", book.Title).Int("quantity", book.Quantity).Msg("book added")
	return book, nil
}

// EditBook overwrites the descriptive fields and resets both quantity and
// availableCopies to the submitted quantity. Copies currently out on loan are
// discarded from the availability tracking; the reset is logged when that
// happens so it can be audited.
func (s *CatalogService) EditBook(ctx context.Context, id string, in ports.BookInput) (*domain.Book, error) {
	if err := validateBookInput(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.AvailableCopies < existing.Quantity {
		s.logger.Warn().
			Str("book_id", id).
			Int("on_loan", existing.Quantity-existing.AvailableCopies).
			Msg("edit resets availability while copies are on loan")
	}

	book := &domain.Book{
		ID:              id,
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		ISBN:            strings.TrimSpace(in.ISBN),
		Category:        strings.TrimSpace(in.Category),
		Description:     strings.TrimSpace(in.Description),
		Quantity:        in.Quantity,
		AvailableCopies: in.Quantity,
	}

	if err := s.repo.Update(ctx, id, book); err != nil {
		return nil, err
	}

	s.logger.Info().Str("book_id", id).Str("title", book.Title).Msg("book updated")
	return book, nil
}

// RemoveBook deletes the record. Outstanding borrowings referencing the book
// are left in place; their availability is simply never restored.
func (s *CatalogService) RemoveBook(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("book_id", id).Msg("book removed")
	return nil
}

// ListBooks returns the books whose field contains value case-insensitively.
// An empty value returns the whole catalog.
func (s *CatalogService) ListBooks(ctx context.Context, field, value string) ([]*domain.Book, error) {
	if field == "" {
		field = "title"
	}
	if !filterableField(field) {
		return nil, fmt.Errorf("%w: unknown filter field %q", domain.ErrInvalidInput, field)
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return books, nil
	}

	needle := strings.ToLower(value)
	filtered := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(fieldValue(b, field)), needle) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func validateBookInput(in ports.BookInput) error {
	for name, v := range map[string]string{
		"title":    in.Title,
		"author":   in.Author,
		"isbn":     in.ISBN,
		"category": in.Category,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
		}
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be non-negative", domain.ErrInvalidInput)
	}
	return nil
}

func filterableField(field string) bool {
	for _, f := range domain.FilterableBookFields {
		if f == field {
			return true
		}
	}
	return false
}

// fieldValue renders the filter target as a string so numeric columns can be
// matched the same way as text ones.
func fieldValue(b *domain.Book, field string) string {
	switch field {
	case "title":
		return b.Title
	case "author":
		return b.Author
	case "isbn":
		return b.ISBN
	case "category":
		return b.Category
	case "quantity":
		return strconv.Itoa(b.Quantity)
	case "availableCopies":
		return strconv.Itoa(b.AvailableCopies)
	default:
		return ""
	}
}
