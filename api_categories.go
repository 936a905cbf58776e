package inkwell

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (a *App) handleListCategories(c echo.Context) error {
	categories, err := a.store.ListCategories(c.Request().Context())
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, categories)
}

func (a *App) handleGetCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid category id")
	}
	category, err := a.store.GetCategoryByID(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "category not found")
	}
	return c.JSON(http.StatusOK, category)
}

func (a *App) handleCategoryPosts(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid category id")
	}
	posts, err := a.store.ListPostsByCategory(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleCreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return apiError(c, http.StatusBadRequest, "name is required")
	}
	if req.Slug == "" {
		req.Slug = Slugify(req.Name)
	}
	category, err := a.store.CreateCategory(c.Request().Context(), req.Name, req.Slug)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusCreated, category)
}

func (a *App) handleUpdateCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid category id")
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	category, err := a.store.UpdateCategory(c.Request().Context(), id, req.Name, req.Slug)
	if err != nil {
		return storeError(c, err, "category not found")
	}
	return c.JSON(http.StatusOK, category)
}

// handleDeleteCategory removes a category and, through the schema cascade,
// every post in it.
func (a *App) handleDeleteCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid category id")
	}
	if err := a.store.DeleteCategory(c.Request().Context(), id); err != nil {
		return storeError(c, err, "category not found")
	}
	return c.NoContent(http.StatusNoContent)
}
