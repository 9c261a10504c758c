package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-system/internal/api/metrics"
	"github.com/openshelf/library-system/internal/core/ports"
)

// BookHandler handles HTTP requests for catalog operations.
type BookHandler struct {
	service ports.CatalogService
}

func NewBookHandler(service ports.CatalogService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /v1/books.
//
// @Summary      Browse the catalog
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        field  query     string  false  "Field to filter on (title, author, isbn, category, quantity, availableCopies)"
// @Param        value  query     string  false  "Filter value; empty returns every book"
// @Success      200    {object}  listBooksResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/books [get]
func (h *BookHandler) List(c echo.Context) error {
	field := c.QueryParam("field")
	value := c.QueryParam("value")

	books, err := h.service.ListBooks(c.Request().Context(), field, value)
	if err != nil {
		return err
	}

	resp := listBooksResponse{Data: make([]bookResponse, 0, len(books))}
	for _, b := range books {
		resp.Data = append(resp.Data, toBookResponse(b))
	}
	resp.Total = len(resp.Data)
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /v1/books.
//
// @Summary      Add a book to the catalog
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book details"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	book, err := h.service.AddBook(c.Request().Context(), ports.BookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Category:    req.Category,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return err
	}

	metrics.BooksCreatedTotal.WithLabelValues(book.Category).Inc()
	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// Update handles PUT /v1/books/:id.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Book id"
// @Param        body  body      bookRequest  true  "New book details"
// @Success      200   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	book, err := h.service.EditBook(c.Request().Context(), c.Param("id"), ports.BookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Category:    req.Category,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete handles DELETE /v1/books/:id.
//
// @Summary      Remove a book from the catalog
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Book id"
// @Success      204  "No Content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.service.RemoveBook(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
