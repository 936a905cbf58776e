package inkwell

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// User management is ADMIN-only; the route group enforces that before these
// handlers run.

func (a *App) handleListUsers(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid query parameters")
	}
	users, err := a.store.ListUsers(c.Request().Context(), q)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, users)
}

func (a *App) handleGetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid user id")
	}
	user, err := a.store.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

func (a *App) handleCreateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return apiError(c, http.StatusBadRequest, "username and password are required")
	}
	if req.Role == "" {
		req.Role = RoleUser
	}
	if !req.Role.Valid() {
		return apiError(c, http.StatusBadRequest, "unknown role")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return storeError(c, err, "")
	}
	user, err := a.store.CreateUser(c.Request().Context(), req.Username, req.Email, hash, req.Role)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusCreated, user)
}

func (a *App) handleUpdateUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid user id")
	}
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Role != "" && !req.Role.Valid() {
		return apiError(c, http.StatusBadRequest, "unknown role")
	}

	hash := ""
	if req.Password != "" {
		if hash, err = HashPassword(req.Password); err != nil {
			return storeError(c, err, "")
		}
	}
	user, err := a.store.UpdateUser(c.Request().Context(), id, req.Username, req.Email, hash, req.Role)
	if err != nil {
		return storeError(c, err, "user not found")
	}
	return c.JSON(http.StatusOK, user)
}

// handleDeleteUser removes an account. Admins cannot delete themselves.
func (a *App) handleDeleteUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid user id")
	}
	if id == principal(c).UserID {
		return apiError(c, http.StatusBadRequest, "cannot delete your own account")
	}
	if err := a.store.DeleteUser(c.Request().Context(), id); err != nil {
		return storeError(c, err, "user not found")
	}
	return c.NoContent(http.StatusNoContent)
}
