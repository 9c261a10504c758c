package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/library-system/internal/core/ports"
)

// DashboardHandler serves the per-principal dashboard.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type dashboardStatsResponse struct {
	ActiveBorrowings int `json:"active_borrowings"`
	DueSoon          int `json:"due_soon"`
	TotalRead        int `json:"total_read"`
}

type dashboardResponse struct {
	Stats    dashboardStatsResponse `json:"stats"`
	Activity []string               `json:"activity"`
}

// Summary handles GET /v1/dashboard.
//
// @Summary      Per-user dashboard stats and activity
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	email, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	d, err := h.service.Summary(c.Request().Context(), email)
	if err != nil {
		return err
	}

	resp := dashboardResponse{
		Stats: dashboardStatsResponse{
			ActiveBorrowings: d.Stats.ActiveBorrowings,
			DueSoon:          d.Stats.DueSoon,
			TotalRead:        d.Stats.TotalRead,
		},
		Activity: d.Activity,
	}
	if resp.Activity == nil {
		resp.Activity = []string{}
	}
	return c.JSON(http.StatusOK, resp)
}
