package inkwell

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := &App{
		cfg: Config{
			Name:      "Test Blog",
			BaseURL:   "http://example.com",
			UploadDir: t.TempDir(),
			JWTSecret: "test-secret",
		},
		e:      echo.New(),
		store:  setupTestStore(t),
		tokens: NewTokenService("test-secret", time.Hour),
		assets: NewStaticAssets(AssetRefs{Styles: []string{"/assets/app.css"}, Scripts: []string{"/assets/app.js"}}),
		logins: newLoginLimiter(5, time.Minute),
	}
	a.e.HideBanner = true
	a.routes = a.pageRoutes()
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func createAccount(t *testing.T, a *App, username, password string, role Role) User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u, err := a.store.CreateUser(context.Background(), username, username+"@example.com", hash, role)
	require.NoError(t, err)
	return u
}

func tokenFor(t *testing.T, a *App, u User) string {
	t.Helper()
	token, err := a.tokens.Sign(u)
	require.NoError(t, err)
	return token
}

func doJSON(a *App, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	a := newTestApp(t)
	createAccount(t, a, "alice", "hunter22", RoleAdmin)

	rec := doJSON(a, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	a := newTestApp(t)
	createAccount(t, a, "alice", "hunter22", RoleAdmin)

	wrongPassword := doJSON(a, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"nope"}`)
	unknownUser := doJSON(a, http.MethodPost, "/api/auth/login", "", `{"username":"nobody","password":"nope"}`)

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, errorMessage(t, wrongPassword), errorMessage(t, unknownUser))
}

func TestLoginRateLimited(t *testing.T) {
	a := newTestApp(t)
	createAccount(t, a, "alice", "hunter22", RoleAdmin)

	var rec *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		rec = doJSON(a, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"nope"}`)
	}
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCreatePostRequiresAuth(t *testing.T) {
	a := newTestApp(t)
	rec := doJSON(a, http.MethodPost, "/api/posts", "", `{"title":"x","content":"y","categoryId":1}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePostRoleAndGrantEnforcement(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	admin := createAccount(t, a, "root", "pw", RoleAdmin)
	editor := createAccount(t, a, "ed", "pw", RoleEditor)
	reader := createAccount(t, a, "reader", "pw", RoleUser)
	cat, err := a.store.CreateCategory(ctx, "Tech", "tech")
	require.NoError(t, err)

	body := `{"title":"Post","content":"words","categoryId":` + jsonID(cat.ID) + `}`

	// USER role is rejected before any category check.
	rec := doJSON(a, http.MethodPost, "/api/posts", tokenFor(t, a, reader), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "insufficient role", errorMessage(t, rec))

	// EDITOR without a grant on the category.
	rec = doJSON(a, http.MethodPost, "/api/posts", tokenFor(t, a, editor), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "no permission for this category", errorMessage(t, rec))

	// EDITOR with a grant.
	_, err = a.store.GrantPermission(ctx, editor.ID, cat.ID)
	require.NoError(t, err)
	rec = doJSON(a, http.MethodPost, "/api/posts", tokenFor(t, a, editor), body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// ADMIN needs no grant.
	adminBody := `{"title":"Admin Post","content":"words","categoryId":` + jsonID(cat.ID) + `}`
	rec = doJSON(a, http.MethodPost, "/api/posts", tokenFor(t, a, admin), adminBody)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Unresolvable category is a 400 for non-admins.
	rec = doJSON(a, http.MethodPost, "/api/posts", tokenFor(t, a, editor), `{"title":"Post","content":"words"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Post updates check role but not the category grant. The permission model
// gates creation into a category; edits only need the EDITOR role.
func TestUpdatePostChecksRoleOnly(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	admin := createAccount(t, a, "root", "pw", RoleAdmin)
	editor := createAccount(t, a, "ed", "pw", RoleEditor)
	cat, err := a.store.CreateCategory(ctx, "Tech", "tech")
	require.NoError(t, err)
	post, err := a.store.CreatePost(ctx, PostInput{Title: "t", Slug: "t", Content: "c", CategoryID: cat.ID}, admin.ID)
	require.NoError(t, err)

	rec := doJSON(a, http.MethodPut, "/api/posts/"+jsonID(post.ID), tokenFor(t, a, editor), `{"summary":"edited"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserRoutesAdminOnly(t *testing.T) {
	a := newTestApp(t)
	editor := createAccount(t, a, "ed", "pw", RoleEditor)

	rec := doJSON(a, http.MethodGet, "/api/users", tokenFor(t, a, editor), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	a := newTestApp(t)
	admin := createAccount(t, a, "root", "pw", RoleAdmin)

	rec := doJSON(a, http.MethodDelete, "/api/users/"+jsonID(admin.ID), tokenFor(t, a, admin), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestViewEndpointThrottles(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	admin := createAccount(t, a, "root", "pw", RoleAdmin)
	cat, err := a.store.CreateCategory(ctx, "Tech", "tech")
	require.NoError(t, err)
	now := time.Now().UTC()
	post, err := a.store.CreatePost(ctx, PostInput{Title: "t", Slug: "t", Content: "c", CategoryID: cat.ID, PublishedAt: &now}, admin.ID)
	require.NoError(t, err)

	first := doJSON(a, http.MethodPost, "/api/posts/"+jsonID(post.ID)+"/view", "", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), `"counted":true`)

	second := doJSON(a, http.MethodPost, "/api/posts/"+jsonID(post.ID)+"/view", "", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), `"counted":false`)

	got, err := a.store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
}

func TestListPostsPublishedFilter(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	admin := createAccount(t, a, "root", "pw", RoleAdmin)
	cat, err := a.store.CreateCategory(ctx, "Tech", "tech")
	require.NoError(t, err)
	now := time.Now().UTC()
	_, err = a.store.CreatePost(ctx, PostInput{Title: "Live", Slug: "live", Content: "c", CategoryID: cat.ID, PublishedAt: &now}, admin.ID)
	require.NoError(t, err)
	_, err = a.store.CreatePost(ctx, PostInput{Title: "Draft", Slug: "draft", Content: "c", CategoryID: cat.ID}, admin.ID)
	require.NoError(t, err)

	// Staff without the filter see drafts.
	rec := doJSON(a, http.MethodGet, "/api/posts", tokenFor(t, a, admin), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"draft"`)

	// published=true narrows the listing regardless of role.
	rec = doJSON(a, http.MethodGet, "/api/posts?published=true", tokenFor(t, a, admin), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"live"`)
	assert.NotContains(t, rec.Body.String(), `"slug":"draft"`)
}

func TestCanManageCategory(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	editor := createAccount(t, a, "ed", "pw", RoleEditor)
	tech, err := a.store.CreateCategory(ctx, "Tech", "tech")
	require.NoError(t, err)
	life, err := a.store.CreateCategory(ctx, "Life", "life")
	require.NoError(t, err)
	_, err = a.store.GrantPermission(ctx, editor.ID, tech.ID)
	require.NoError(t, err)

	ok, err := a.CanManageCategory(ctx, Claims{UserID: editor.ID, Role: RoleEditor}, tech.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.CanManageCategory(ctx, Claims{UserID: editor.ID, Role: RoleEditor}, life.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// ADMIN needs no grant row, for any category.
	ok, err = a.CanManageCategory(ctx, Claims{UserID: 999, Role: RoleAdmin}, life.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetPostHidesDraftsFromAnonymous(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	admin := createAccount(t, a, "root", "pw", RoleAdmin)
	cat, err := a.store.CreateCategory(ctx, "Tech", "tech")
	require.NoError(t, err)
	draft, err := a.store.CreatePost(ctx, PostInput{Title: "d", Slug: "d", Content: "c", CategoryID: cat.ID}, admin.ID)
	require.NoError(t, err)

	rec := doJSON(a, http.MethodGet, "/api/posts/"+jsonID(draft.ID), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(a, http.MethodGet, "/api/posts/"+jsonID(draft.ID), tokenFor(t, a, admin), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	a := newTestApp(t)
	rec := doJSON(a, http.MethodPost, "/api/auth/logout", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
