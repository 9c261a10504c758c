package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// BorrowDedup abstracts the idempotency store (Redis) guarding against
// duplicate borrow submissions.
type BorrowDedup interface {
	IsDuplicate(ctx context.Context, user, key string) (bool, error)
	Mark(ctx context.Context, user, key string) error
}

// LoanPolicy holds the tunable borrowing rules.
type LoanPolicy struct {
	// FinePerDay is the fine accrued per full day late, in whole currency
	// units.
	FinePerDay int
	// DueSoonDays is the width of the "due soon" notification window.
	DueSoonDays int
}

// DefaultLoanPolicy is $1 per late day, with notices within three days of
// the due date.
var DefaultLoanPolicy = LoanPolicy{FinePerDay: 1, DueSoonDays: 3}

type BorrowingService struct {
	borrowings ports.BorrowingRepository
	books      ports.BookRepository
	dedup      BorrowDedup
	policy     LoanPolicy
	logger     zerolog.Logger
	now        func() time.Time
}

func NewBorrowingService(
	borrowings ports.BorrowingRepository,
	books ports.BookRepository,
	dedup BorrowDedup,
	policy LoanPolicy,
	logger zerolog.Logger,
) *BorrowingService {
	if policy.FinePerDay <= 0 {
		policy.FinePerDay = DefaultLoanPolicy.FinePerDay
	}
	if policy.DueSoonDays <= 0 {
		policy.DueSoonDays = DefaultLoanPolicy.DueSoonDays
	}
	return &BorrowingService{
		borrowings: borrowings,
		books:      books,
		dedup:      dedup,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

// Borrow reserves a copy and records the borrowing. The reservation is an
// atomic conditional decrement; if the borrowing insert then fails, a
// compensating increment releases the copy again.
func (s *BorrowingService) Borrow(ctx context.Context, in ports.BorrowInput) (*domain.Borrowing, error) {
	if in.User == "" || in.BookID == "" {
		return nil, fmt.Errorf("%w: user and book id are required", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseDate(in.DueDate); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		isDup, err := s.dedup.IsDuplicate(ctx, in.User, in.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("user", in.User).Msg("dedup check failed, processing anyway")
		} else if isDup {
			s.logger.Info().Str("user", in.User).Str("key", in.IdempotencyKey).Msg("duplicate borrow skipped")
			return nil, domain.ErrDuplicateBorrow
		}
	}

	book, err := s.books.FindByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}

	if err := s.books.DecrementAvailable(ctx, in.BookID); err != nil {
		return nil, err
	}

	borrowing := &domain.Borrowing{
		ID:         uuid.NewString(),
		BookID:     in.BookID,
		BookTitle:  book.Title,
		User:       in.User,
		DueDate:    in.DueDate,
		ReturnDate: "",
		FineAmount: 0,
		Status:     domain.StatusActive,
	}

	if err := s.borrowings.Create(ctx, borrowing); err != nil {
		// Compensate the reservation so the copy is not lost.
		if incErr := s.books.IncrementAvailable(ctx, in.BookID); incErr != nil {
			s.logger.Error().Err(incErr).Str("book_id", in.BookID).Msg("failed to release copy after borrow rollback")
		}
		s.logger.Error().Err(err).Str("user", in.User).Str("book_id", in.BookID).Msg("failed to create borrowing")
		return nil, err
	}

	if in.IdempotencyKey != "" {
		if markErr := s.dedup.Mark(ctx, in.User, in.IdempotencyKey); markErr != nil {
			s.logger.Warn().Err(markErr).Str("user", in.User).Msg("failed to set dedup key")
		}
	}

	s.logger.Info().
		Str("borrowing_id", borrowing.ID).
		Str("user", in.User).
		Str("book_id", in.BookID).
		Str("due_date", in.DueDate).
		Msg("book borrowed")

	return borrowing, nil
}

// ListBorrowings returns the principal's borrowings with derived display
// state and notices. It never writes; fines shown for overdue actives are
// computed on the fly and only persisted by RefreshAccruals.
func (s *BorrowingService) ListBorrowings(ctx context.Context, user string) (*ports.BorrowingList, error) {
	records, err := s.borrowings.FindByUser(ctx, user)
	if err != nil {
		return nil, err
	}

	today := s.now()
	list := &ports.BorrowingList{Items: make([]ports.BorrowingView, 0, len(records))}
	for _, b := range records {
		fine := b.FineAmount
		if b.IsOverdue(today) {
			fine = b.FineAt(today, s.policy.FinePerDay)
			list.Notices = append(list.Notices, overdueNotice(b.BookTitle, fine))
		} else if s.dueSoon(b, today) {
			list.Notices = append(list.Notices, dueSoonNotice(b.BookTitle, b.DueDate))
		}

		list.Items = append(list.Items, ports.BorrowingView{
			ID:         b.ID,
			BookID:     b.BookID,
			BookTitle:  b.BookTitle,
			User:       b.User,
			DueDate:    b.DueDate,
			ReturnDate: b.ReturnDate,
			Fine:       fine,
			Status:     b.DisplayStatus(),
		})
	}
	return list, nil
}

// RefreshAccruals persists the current fine for every overdue active
// borrowing of the principal and returns the overdue notices. It is the
// write counterpart of ListBorrowings, split out so listing stays a pure
// read.
func (s *BorrowingService) RefreshAccruals(ctx context.Context, user string) ([]string, error) {
	records, err := s.borrowings.FindByUser(ctx, user)
	if err != nil {
		return nil, err
	}

	today := s.now()
	var notices []string
	for _, b := range records {
		if !b.IsOverdue(today) {
			continue
		}
		fine := b.FineAt(today, s.policy.FinePerDay)
		if fine != b.FineAmount {
			if err := s.borrowings.UpdateFine(ctx, b.ID, fine); err != nil {
				return notices, fmt.Errorf("refresh accruals: %w", err)
			}
			s.logger.Info().Str("borrowing_id", b.ID).Int("fine", fine).Msg("fine accrued")
		}
		notices = append(notices, overdueNotice(b.BookTitle, fine))
	}
	return notices, nil
}

// Return transitions a borrowing to returned and restores the copy to the
// catalog. The status flip is guarded so a second return is rejected and the
// availability can never be incremented twice for the same borrowing.
func (s *BorrowingService) Return(ctx context.Context, user, borrowingID string) error {
	b, err := s.borrowings.FindByID(ctx, borrowingID, user)
	if err != nil {
		return err
	}
	if b.Status == domain.StatusReturned {
		return domain.ErrAlreadyReturned
	}

	returnDate := domain.Midnight(s.now()).Format(domain.DateLayout)
	if err := s.borrowings.MarkReturned(ctx, borrowingID, user, returnDate); err != nil {
		return err
	}

	s.logger.Info().Str("borrowing_id", borrowingID).Str("user", user).Msg("book returned")

	if err := s.restoreAvailability(ctx, b); err != nil {
		// The return itself has committed; a missing or unreachable book
		// leaves the copy unrestored.
		s.logger.Warn().Err(err).
			Str("borrowing_id", borrowingID).
			Str("book", b.BookTitle).
			Msg("copy not restored to catalog")
	}
	return nil
}

func (s *BorrowingService) restoreAvailability(ctx context.Context, b *domain.Borrowing) error {
	bookID := b.BookID
	if bookID == "" {
		// Legacy records carry only the title snapshot.
		book, err := s.books.FindByTitle(ctx, b.BookTitle)
		if err != nil {
			return err
		}
		bookID = book.ID
	}
	return s.books.IncrementAvailable(ctx, bookID)
}

func (s *BorrowingService) dueSoon(b *domain.Borrowing, today time.Time) bool {
	if b.Status != domain.StatusActive {
		return false
	}
	days, ok := b.DaysUntilDue(today)
	return ok && days >= 0 && days <= s.policy.DueSoonDays
}

func overdueNotice(title string, fine int) string {
	return fmt.Sprintf("%s is overdue! Fine: $%d", title, fine)
}

func dueSoonNotice(title, dueDate string) string {
	return fmt.Sprintf("%s is due soon on %s.", title, dueDate)
}
