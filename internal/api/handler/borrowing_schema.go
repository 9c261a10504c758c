package handler

import "github.com/openshelf/library-system/internal/core/ports"

// --- Request / Response types ---

type borrowRequest struct {
	BookID  string `json:"book_id"  validate:"required"`
	DueDate string `json:"due_date" validate:"required"`
}

type borrowingResponse struct {
	ID         string `json:"id"`
	BookID     string `json:"book_id,omitempty"`
	Book       string `json:"book"`
	User       string `json:"user"`
	DueDate    string `json:"due_date"`
	ReturnDate string `json:"return_date,omitempty"`
	Fine       int    `json:"fine"`
	Status     string `json:"status"`
}

type listBorrowingsResponse struct {
	Data    []borrowingResponse `json:"data"`
	Notices []string            `json:"notices"`
}

type noticesResponse struct {
	Notices []string `json:"notices"`
}

func toBorrowingResponse(v ports.BorrowingView) borrowingResponse {
	return borrowingResponse{
		ID:         v.ID,
		BookID:     v.BookID,
		Book:       v.BookTitle,
		User:       v.User,
		DueDate:    v.DueDate,
		ReturnDate: v.ReturnDate,
		Fine:       v.Fine,
		Status:     v.Status,
	}
}
