package inkwell

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// handleListPosts lists posts. Anonymous callers only see published posts;
// authenticated staff also get drafts unless published=true narrows the
// listing back down.
func (a *App) handleListPosts(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid query parameters")
	}

	publishedOnly := true
	if raw := extractToken(c); raw != "" {
		if claims, err := a.tokens.Verify(raw); err == nil && claims.Role != RoleUser {
			publishedOnly = false
		}
	}
	if c.QueryParam("published") == "true" {
		publishedOnly = true
	}

	posts, err := a.store.ListPosts(c.Request().Context(), q, publishedOnly)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleGetPost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid post id")
	}
	post, err := a.store.GetPostByID(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "post not found")
	}
	if !post.Published() {
		// Drafts are only visible to staff.
		raw := extractToken(c)
		claims, err := a.tokens.Verify(raw)
		if raw == "" || err != nil || claims.Role == RoleUser {
			return apiError(c, http.StatusNotFound, "post not found")
		}
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleCreatePost(c echo.Context) error {
	var in PostInput
	if err := c.Bind(&in); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}
	if in.Title == "" || in.Content == "" || in.CategoryID == 0 {
		return apiError(c, http.StatusBadRequest, "title, content and categoryId are required")
	}
	if in.Slug == "" {
		in.Slug = Slugify(in.Title)
	}

	post, err := a.store.CreatePost(c.Request().Context(), in, principal(c).UserID)
	if err != nil {
		return storeError(c, err, "category not found")
	}
	return c.JSON(http.StatusCreated, post)
}

func (a *App) handleUpdatePost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid post id")
	}
	var in PostInput
	if err := c.Bind(&in); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request body")
	}

	post, err := a.store.UpdatePost(c.Request().Context(), id, in)
	if err != nil {
		return storeError(c, err, "post not found")
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleDeletePost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid post id")
	}
	if err := a.store.DeletePost(c.Request().Context(), id); err != nil {
		return storeError(c, err, "post not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// handleIncrementView bumps a post's view counter. Repeat hits from the same
// client inside the throttle window are acknowledged but not counted.
func (a *App) handleIncrementView(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, "invalid post id")
	}
	counted, err := a.store.IncrementView(c.Request().Context(), id, c.RealIP())
	if err != nil {
		return storeError(c, err, "post not found")
	}
	return c.JSON(http.StatusOK, map[string]bool{"counted": counted})
}
