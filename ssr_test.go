package inkwell

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPublishedPost(t *testing.T, a *App, title string) Post {
	t.Helper()
	ctx := context.Background()
	admin, err := a.store.GetUserByUsername(ctx, "root")
	if err != nil {
		admin = createAccount(t, a, "root", "pw", RoleAdmin)
	}
	cat, err := a.store.GetCategoryBySlug(ctx, "tech")
	if err != nil {
		cat, err = a.store.CreateCategory(ctx, "Tech", "tech")
		require.NoError(t, err)
	}
	now := time.Now().UTC()
	post, err := a.store.CreatePost(ctx, PostInput{
		Title:       title,
		Slug:        Slugify(title),
		Content:     "# Heading\n\nBody text.",
		Summary:     "A summary.",
		CategoryID:  cat.ID,
		PublishedAt: &now,
	}, admin.ID)
	require.NoError(t, err)
	return post
}

func doPage(a *App, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestHomePageRenders(t *testing.T) {
	a := newTestApp(t)
	post := seedPublishedPost(t, a, "Hello World")

	rec := doPage(a, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Hello World")
	assert.Contains(t, body, "window.__INITIAL_DATA__")
	assert.Contains(t, body, "/assets/app.js")
	assert.Contains(t, body, "/posts/"+jsonID(post.ID))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "must-revalidate")
}

func TestHomePageNotModified(t *testing.T) {
	a := newTestApp(t)
	seedPublishedPost(t, a, "Hello World")

	first := doPage(a, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPostPage(t *testing.T) {
	a := newTestApp(t)
	post := seedPublishedPost(t, a, "Deep Dive")

	rec := doPage(a, http.MethodGet, "/posts/"+jsonID(post.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deep Dive")
	assert.Contains(t, rec.Body.String(), "<h1>Heading</h1>")
}

func TestPostPageNotFound(t *testing.T) {
	a := newTestApp(t)
	seedPublishedPost(t, a, "Exists")

	for _, path := range []string{"/posts/99999", "/posts/abc", "/no-such-route"} {
		rec := doPage(a, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
		assert.Contains(t, rec.Body.String(), "404")
	}
}

func TestDraftPostPageIsNotFound(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	admin := createAccount(t, a, "root", "pw", RoleAdmin)
	cat, err := a.store.CreateCategory(ctx, "Tech", "tech")
	require.NoError(t, err)
	draft, err := a.store.CreatePost(ctx, PostInput{Title: "d", Slug: "d", Content: "c", CategoryID: cat.ID}, admin.ID)
	require.NoError(t, err)

	rec := doPage(a, http.MethodGet, "/posts/"+jsonID(draft.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryPage(t *testing.T) {
	a := newTestApp(t)
	seedPublishedPost(t, a, "Tagged Post")

	rec := doPage(a, http.MethodGet, "/categories/tech", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tagged Post")

	rec = doPage(a, http.MethodGet, "/categories/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTagPage(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	post := seedPublishedPost(t, a, "Tagged Deep Dive")
	tag, err := a.store.CreateTag(ctx, "Go", "go")
	require.NoError(t, err)
	_, err = a.store.UpdatePost(ctx, post.ID, PostInput{TagIDs: []int64{tag.ID}})
	require.NoError(t, err)

	rec := doPage(a, http.MethodGet, "/tags/go", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tagged Deep Dive")

	// The layout's tag cloud links to the tag page.
	assert.Contains(t, rec.Body.String(), `href="/tags/go"`)

	rec = doPage(a, http.MethodGet, "/tags/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowedRendersHTMLOnPageRoutes(t *testing.T) {
	a := newTestApp(t)
	post := seedPublishedPost(t, a, "Read Only")

	// The post route has no action, so a POST cannot be handled.
	rec := doPage(a, http.MethodPost, "/posts/"+jsonID(post.ID), "", url.Values{})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "405")
	assert.NotContains(t, rec.Body.String(), `"message"`)
}

func TestArchivePage(t *testing.T) {
	a := newTestApp(t)
	post := seedPublishedPost(t, a, "This Year")
	year := post.PublishedAt.Format("2006")

	rec := doPage(a, http.MethodGet, "/archive/"+year, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This Year")
}

func TestAdminRedirectsAnonymous(t *testing.T) {
	a := newTestApp(t)

	rec := doPage(a, http.MethodGet, "/admin", "", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = doPage(a, http.MethodGet, "/admin", "garbage-token", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAdminDashboardForSignedIn(t *testing.T) {
	a := newTestApp(t)
	admin := createAccount(t, a, "root", "pw", RoleAdmin)

	rec := doPage(a, http.MethodGet, "/admin", tokenFor(t, a, admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "root")
	assert.Contains(t, rec.Body.String(), "Recent posts")
}

func TestLoginFormFlow(t *testing.T) {
	a := newTestApp(t)
	createAccount(t, a, "root", "pw", RoleAdmin)

	rec := doPage(a, http.MethodGet, "/admin/login", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password"`)

	// Wrong password re-renders the form with the generic message.
	rec = doPage(a, http.MethodPost, "/admin/login", "", url.Values{"username": {"root"}, "password": {"nope"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrInvalidCredentials.Error())

	// Correct credentials redirect into the admin area with the cookie set.
	rec = doPage(a, http.MethodPost, "/admin/login", "", url.Values{"username": {"root"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestFeedAndSitemap(t *testing.T) {
	a := newTestApp(t)
	post := seedPublishedPost(t, a, "Syndicated")

	rec := doPage(a, http.MethodGet, "/feed.xml", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<rss")
	assert.Contains(t, rec.Body.String(), "Syndicated")

	rec = doPage(a, http.MethodGet, "/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "urlset")
	assert.Contains(t, rec.Body.String(), "/posts/"+jsonID(post.ID))
}
