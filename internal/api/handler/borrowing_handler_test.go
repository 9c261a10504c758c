package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-system/internal/api/handler"
	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

type stubBorrowingService struct {
	borrowFn  func(ctx context.Context, in ports.BorrowInput) (*domain.Borrowing, error)
	listFn    func(ctx context.Context, user string) (*ports.BorrowingList, error)
	refreshFn func(ctx context.Context, user string) ([]string, error)
	returnFn  func(ctx context.Context, user, id string) error
}

func (s *stubBorrowingService) Borrow(ctx context.Context, in ports.BorrowInput) (*domain.Borrowing, error) {
	return s.borrowFn(ctx, in)
}

func (s *stubBorrowingService) ListBorrowings(ctx context.Context, user string) (*ports.BorrowingList, error) {
	return s.listFn(ctx, user)
}

func (s *stubBorrowingService) RefreshAccruals(ctx context.Context, user string) ([]string, error) {
	return s.refreshFn(ctx, user)
}

func (s *stubBorrowingService) Return(ctx context.Context, user, id string) error {
	return s.returnFn(ctx, user, id)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("email", "reader@example.com")
	c.Set("role", "User")
	return c
}

func TestBorrowingHandler_Borrow_Success(t *testing.T) {
	e := newEcho()
	stub := &stubBorrowingService{
		borrowFn: func(ctx context.Context, in ports.BorrowInput) (*domain.Borrowing, error) {
			if in.User != "reader@example.com" {
				t.Fatalf("expected principal from context, got %q", in.User)
			}
			if in.IdempotencyKey != "key-1" {
				t.Fatalf("expected idempotency key from header, got %q", in.IdempotencyKey)
			}
			return &domain.Borrowing{
				ID: "b1", BookID: in.BookID, BookTitle: "Dune", User: in.User,
				DueDate: in.DueDate, Status: domain.StatusActive,
			}, nil
		},
	}
	h := handler.NewBorrowingHandler(stub)

	body := strings.NewReader(`{"book_id":"book_001","due_date":"2025-01-24"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/borrowings", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Borrow(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["book"] != "Dune" || resp["status"] != "borrowed" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestBorrowingHandler_Borrow_Unavailable(t *testing.T) {
	e := newEcho()
	stub := &stubBorrowingService{
		borrowFn: func(ctx context.Context, in ports.BorrowInput) (*domain.Borrowing, error) {
			return nil, domain.ErrBookUnavailable
		},
	}
	h := handler.NewBorrowingHandler(stub)

	body := strings.NewReader(`{"book_id":"book_001","due_date":"2025-01-24"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/borrowings", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Borrow(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestBorrowingHandler_Borrow_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubBorrowingService{
		borrowFn: func(ctx context.Context, in ports.BorrowInput) (*domain.Borrowing, error) {
			return nil, domain.ErrDuplicateBorrow
		},
	}
	h := handler.NewBorrowingHandler(stub)

	body := strings.NewReader(`{"book_id":"book_001","due_date":"2025-01-24"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/borrowings", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Borrow(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestBorrowingHandler_Borrow_MissingPrincipal(t *testing.T) {
	e := newEcho()
	stub := &stubBorrowingService{
		borrowFn: func(ctx context.Context, in ports.BorrowInput) (*domain.Borrowing, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := handler.NewBorrowingHandler(stub)

	body := strings.NewReader(`{"book_id":"book_001","due_date":"2025-01-24"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/borrowings", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Borrow(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBorrowingHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubBorrowingService{
		listFn: func(ctx context.Context, user string) (*ports.BorrowingList, error) {
			return &ports.BorrowingList{
				Items: []ports.BorrowingView{
					{ID: "b1", BookTitle: "Dune", User: user, DueDate: "2025-01-01", Fine: 5, Status: "borrowed"},
				},
				Notices: []string{"Dune is overdue! Fine: $5"},
			}, nil
		},
	}
	h := handler.NewBorrowingHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/borrowings", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data []struct {
			Book string `json:"book"`
			Fine int    `json:"fine"`
		} `json:"data"`
		Notices []string `json:"notices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Fine != 5 {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
	if len(resp.Notices) != 1 {
		t.Fatalf("unexpected notices: %v", resp.Notices)
	}
}

func TestBorrowingHandler_Refresh(t *testing.T) {
	e := newEcho()
	stub := &stubBorrowingService{
		refreshFn: func(ctx context.Context, user string) ([]string, error) {
			return []string{"Dune is overdue! Fine: $5"}, nil
		},
	}
	h := handler.NewBorrowingHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/borrowings/refresh", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBorrowingHandler_Return_Success(t *testing.T) {
	e := newEcho()
	stub := &stubBorrowingService{
		returnFn: func(ctx context.Context, user, id string) error {
			if user != "reader@example.com" || id != "b1" {
				t.Fatalf("unexpected args: %s %s", user, id)
			}
			return nil
		},
	}
	h := handler.NewBorrowingHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/borrowings/b1/return", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.Return(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestBorrowingHandler_Return_AlreadyReturned(t *testing.T) {
	e := newEcho()
	stub := &stubBorrowingService{
		returnFn: func(ctx context.Context, user, id string) error {
			return domain.ErrAlreadyReturned
		},
	}
	h := handler.NewBorrowingHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/borrowings/b1/return", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.Return(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

type stubDashboardService struct {
	summaryFn func(ctx context.Context, user string) (*ports.Dashboard, error)
}

func (s *stubDashboardService) Summary(ctx context.Context, user string) (*ports.Dashboard, error) {
	return s.summaryFn(ctx, user)
}

func TestDashboardHandler_Summary(t *testing.T) {
	e := newEcho()
	stub := &stubDashboardService{
		summaryFn: func(ctx context.Context, user string) (*ports.Dashboard, error) {
			return &ports.Dashboard{
				Stats:    ports.DashboardStats{ActiveBorrowings: 2, DueSoon: 1, TotalRead: 3},
				Activity: []string{"Borrowed: Dune on 2025-01-20"},
			}, nil
		},
	}
	h := handler.NewDashboardHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Stats struct {
			ActiveBorrowings int `json:"active_borrowings"`
			DueSoon          int `json:"due_soon"`
			TotalRead        int `json:"total_read"`
		} `json:"stats"`
		Activity []string `json:"activity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Stats.ActiveBorrowings != 2 || resp.Stats.DueSoon != 1 || resp.Stats.TotalRead != 3 {
		t.Fatalf("unexpected stats: %+v", resp.Stats)
	}
	if len(resp.Activity) != 1 {
		t.Fatalf("unexpected activity: %v", resp.Activity)
	}
}
