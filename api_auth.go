package inkwell

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin authenticates credentials and sets the session cookie. Every
// credential failure gets the same message so usernames cannot be enumerated.
func (a *App) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return apiError(c, http.StatusBadRequest, "username and password are required")
	}

	addr := c.RealIP()
	if !a.logins.Check(addr) {
		return apiError(c, http.StatusTooManyRequests, "too many login attempts, try again later")
	}

	token, user, err := a.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			a.logins.Record(addr)
			return apiError(c, http.StatusUnauthorized, ErrInvalidCredentials.Error())
		}
		return storeError(c, err, "")
	}

	a.setAuthCookie(c, token)
	return c.JSON(http.StatusOK, user)
}

// handleLogout clears the session cookie. It works without a valid token so
// a client with an expired session can still sign out cleanly.
func (a *App) handleLogout(c echo.Context) error {
	a.clearAuthCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// handleMe returns the account behind the current token.
func (a *App) handleMe(c echo.Context) error {
	claims := principal(c)
	user, err := a.store.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return storeError(c, err, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}
