package handler

import "github.com/openshelf/library-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type bookRequest struct {
	Title       string `json:"title"       validate:"required"`
	Author      string `json:"author"      validate:"required"`
	ISBN        string `json:"isbn"        validate:"required"`
	Category    string `json:"category"    validate:"required"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"    validate:"gte=0"`
}

// bookResponse is owned by the transport layer so the JSON contract is not
// coupled to internal domain changes.
type bookResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	Quantity        int    `json:"quantity"`
	AvailableCopies int    `json:"available_copies"`
}

type listBooksResponse struct {
	Data  []bookResponse `json:"data"`
	Total int            `json:"total"`
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Category:        b.Category,
		Description:     b.Description,
		Quantity:        b.Quantity,
		AvailableCopies: b.AvailableCopies,
	}
}
