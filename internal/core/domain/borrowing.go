package domain

import (
	"errors"
	"time"
)

// BorrowingStatus is the persisted lifecycle state of a borrowing. Overdue is
// never stored; it is derived from DueDate at read time.
type BorrowingStatus string

const (
	StatusActive   BorrowingStatus = "active"
	StatusReturned BorrowingStatus = "returned"
)

var ErrBorrowingNotFound = errors.New("borrowing not found")
var ErrAlreadyReturned = errors.New("borrowing already returned")
var ErrDuplicateBorrow = errors.New("borrow request already processed")

// Borrowing links a principal to a borrowed book copy. BookID is the catalog
// foreign key; BookTitle is a denormalized snapshot kept for display and for
// legacy documents that predate the FK. The bson field names match the
// documents written by the legacy hosted store.
type Borrowing struct {
	ID         string          `json:"id" bson:"_id,omitempty"`
	BookID     string          `json:"book_id,omitempty" bson:"bookId,omitempty"`
	BookTitle  string          `json:"book" bson:"book"`
	User       string          `json:"user" bson:"user"`
	DueDate    string          `json:"dueDate" bson:"dueDate"`
	ReturnDate string          `json:"returnDate" bson:"returnDate"`
	FineAmount int             `json:"fineAmount" bson:"fineAmount"`
	Status     BorrowingStatus `json:"status" bson:"status"`
}

// IsOverdue reports whether the borrowing is active and past its due date.
func (b *Borrowing) IsOverdue(today time.Time) bool {
	if b.Status != StatusActive || b.ReturnDate != "" {
		return false
	}
	due, err := ParseDate(b.DueDate)
	if err != nil {
		return false
	}
	return due.Before(Midnight(today))
}

// FineAt returns the fine in whole currency units at the given moment:
// perDay per full day late, zero when not overdue.
func (b *Borrowing) FineAt(today time.Time, perDay int) int {
	if !b.IsOverdue(today) {
		return 0
	}
	due, _ := ParseDate(b.DueDate)
	return DaysBetween(due, Midnight(today)) * perDay
}

// DaysUntilDue returns the number of full days until the due date, negative
// when past due. The second return is false when DueDate cannot be parsed.
func (b *Borrowing) DaysUntilDue(today time.Time) (int, bool) {
	due, err := ParseDate(b.DueDate)
	if err != nil {
		return 0, false
	}
	return DaysBetween(Midnight(today), due), true
}

// DisplayStatus maps the stored status to the user-facing label: active
// borrowings display as "borrowed", anything else passes through.
func (b *Borrowing) DisplayStatus() string {
	if b.Status == StatusActive {
		return "borrowed"
	}
	return string(b.Status)
}
