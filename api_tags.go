package inkwell

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type tagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (a *App) handleListTags(c echo.Context) error {
	tags, err := a.store.ListTags(c.Request().Context())
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, tags)
}

func (a *App) handleTagPosts(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid tag id")
	}
	posts, err := a.store.ListPostsByTag(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleCreateTag(c echo.Context) error {
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return apiError(c, http.StatusBadRequest, "name is required")
	}
	if req.Slug == "" {
		req.Slug = Slugify(req.Name)
	}
	tag, err := a.store.CreateTag(c.Request().Context(), req.Name, req.Slug)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusCreated, tag)
}

func (a *App) handleUpdateTag(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid tag id")
	}
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	tag, err := a.store.UpdateTag(c.Request().Context(), id, req.Name, req.Slug)
	if err != nil {
		return storeError(c, err, "tag not found")
	}
	return c.JSON(http.StatusOK, tag)
}

func (a *App) handleDeleteTag(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid tag id")
	}
	if err := a.store.DeleteTag(c.Request().Context(), id); err != nil {
		return storeError(c, err, "tag not found")
	}
	return c.NoContent(http.StatusNoContent)
}
