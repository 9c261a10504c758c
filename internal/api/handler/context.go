package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxPrincipal extracts the auth claims injected by the Auth middleware.
// Every borrowing and dashboard operation is scoped to the principal's
// email, so a token without one is structurally valid but operationally
// unusable and gets rejected here.
func ctxPrincipal(c echo.Context) (email, role string, err error) {
	email, _ = c.Get("email").(string)
	if email == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing principal identity")
	}
	role, _ = c.Get("role").(string)
	return email, role, nil
}
