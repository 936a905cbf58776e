package inkwell

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrNotFound is returned by store accessors when the referenced row is absent.
var ErrNotFound = sql.ErrNoRows

// ErrInvalidCredentials is returned for both unknown-username and wrong-password
// login failures so the message never leaks which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// apiError writes the uniform {message} error body used by every /api endpoint.
func apiError(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]string{"message": message})
}

// storeError translates a store failure into the API error contract:
// missing rows become 404, everything else is logged and opaque.
func storeError(c echo.Context, err error, notFoundMessage string) error {
	if errors.Is(err, ErrNotFound) {
		return apiError(c, http.StatusNotFound, notFoundMessage)
	}
	c.Logger().Errorf("store error: %v", err)
	return apiError(c, http.StatusInternalServerError, "internal server error")
}
