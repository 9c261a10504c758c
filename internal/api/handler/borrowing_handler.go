package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-system/internal/api/metrics"
	"github.com/openshelf/library-system/internal/core/domain"
	"github.com/openshelf/library-system/internal/core/ports"
)

// BorrowingHandler handles HTTP requests for borrowing operations. All
// operations are scoped to the authenticated principal.
type BorrowingHandler struct {
	service ports.BorrowingService
}

func NewBorrowingHandler(service ports.BorrowingService) *BorrowingHandler {
	return &BorrowingHandler{service: service}
}

// Borrow handles POST /v1/borrowings.
//
// @Summary      Borrow a book copy
// @Tags         borrowings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      borrowRequest  true   "Borrow details"
// @Success      201              {object}  borrowingResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/borrowings [post]
func (h *BorrowingHandler) Borrow(c echo.Context) error {
	email, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req borrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	b, err := h.service.Borrow(c.Request().Context(), ports.BorrowInput{
		User:           email,
		BookID:         req.BookID,
		DueDate:        req.DueDate,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateBorrow):
			metrics.BorrowDedupTotal.WithLabelValues("hit").Inc()
			metrics.BorrowsTotal.WithLabelValues("duplicate").Inc()
		case errors.Is(err, domain.ErrBookUnavailable):
			metrics.BorrowsTotal.WithLabelValues("unavailable").Inc()
		default:
			metrics.BorrowsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.BorrowDedupTotal.WithLabelValues("miss").Inc()
	metrics.BorrowsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusCreated, borrowingResponse{
		ID:         b.ID,
		BookID:     b.BookID,
		Book:       b.BookTitle,
		User:       b.User,
		DueDate:    b.DueDate,
		Fine:       b.FineAmount,
		Status:     b.DisplayStatus(),
		ReturnDate: b.ReturnDate,
	})
}

// List handles GET /v1/borrowings.
//
// @Summary      List the principal's borrowings
// @Tags         borrowings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listBorrowingsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/borrowings [get]
func (h *BorrowingHandler) List(c echo.Context) error {
	email, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	list, err := h.service.ListBorrowings(c.Request().Context(), email)
	if err != nil {
		return err
	}

	resp := listBorrowingsResponse{
		Data:    make([]borrowingResponse, 0, len(list.Items)),
		Notices: list.Notices,
	}
	if resp.Notices == nil {
		resp.Notices = []string{}
	}
	for _, v := range list.Items {
		resp.Data = append(resp.Data, toBorrowingResponse(v))
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /v1/borrowings/refresh.
//
// @Summary      Persist fine accruals for the principal's overdue borrowings
// @Tags         borrowings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  noticesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/borrowings/refresh [post]
func (h *BorrowingHandler) Refresh(c echo.Context) error {
	email, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	notices, err := h.service.RefreshAccruals(c.Request().Context(), email)
	if err != nil {
		return err
	}
	if notices == nil {
		notices = []string{}
	}
	return c.JSON(http.StatusOK, noticesResponse{Notices: notices})
}

// Return handles POST /v1/borrowings/:id/return.
//
// @Summary      Return a borrowed book
// @Tags         borrowings
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Borrowing id"
// @Success      204  "No Content"
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/borrowings/{id}/return [post]
func (h *BorrowingHandler) Return(c echo.Context) error {
	email, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Return(c.Request().Context(), email, c.Param("id")); err != nil {
		metrics.ReturnsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.ReturnsTotal.WithLabelValues("success").Inc()
	return c.NoContent(http.StatusNoContent)
}
