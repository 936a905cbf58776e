package inkwell

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type permissionRequest struct {
	UserID     int64 `json:"userId"`
	CategoryID int64 `json:"categoryId"`
}

// handleGrantPermission gives a user management rights over a category.
// Granting twice is a no-op that returns the existing grant.
func (a *App) handleGrantPermission(c echo.Context) error {
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == 0 || req.CategoryID == 0 {
		return apiError(c, http.StatusBadRequest, "userId and categoryId are required")
	}
	perm, err := a.store.GrantPermission(c.Request().Context(), req.UserID, req.CategoryID)
	if err != nil {
		return storeError(c, err, "user or category not found")
	}
	return c.JSON(http.StatusCreated, perm)
}

func (a *App) handleRevokePermission(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid user id")
	}
	categoryID, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid category id")
	}
	if err := a.store.RevokePermission(c.Request().Context(), userID, categoryID); err != nil {
		return storeError(c, err, "permission not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleListUserPermissions(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid user id")
	}
	perms, err := a.store.ListUserPermissions(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, perms)
}

func (a *App) handleListCategoryPermissions(c echo.Context) error {
	categoryID, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid category id")
	}
	perms, err := a.store.ListCategoryPermissions(c.Request().Context(), categoryID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, perms)
}

// handleMyCategories returns the categories the caller may manage: all of
// them for ADMIN, the granted set for everyone else.
func (a *App) handleMyCategories(c echo.Context) error {
	categories, err := a.store.ManageableCategories(c.Request().Context(), principal(c))
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, categories)
}
