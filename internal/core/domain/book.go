package domain

import "errors"

var ErrBookNotFound = errors.New("book not found")
var ErrBookUnavailable = errors.New("no copies available")
var ErrInvalidInput = errors.New("invalid input")
var ErrForbidden = errors.New("access forbidden")

// Book is a catalog record. AvailableCopies tracks loanable copies and must
// stay within [0, Quantity] across every catalog operation.
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	Quantity        int    `json:"quantity"`
	AvailableCopies int    `json:"available_copies"`
}

// FilterableBookFields lists the catalog fields ListBooks accepts as a filter
// target, matching the columns the legacy store exposed.
var FilterableBookFields = []string{"title", "author", "isbn", "category", "quantity", "availableCopies"}
