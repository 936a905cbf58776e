package inkwell

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// principalKey is the echo context key holding the verified Claims.
const principalKey = "principal"

// bcryptCost matches the cost the seed data and user creation use.
const bcryptCost = 10

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Authenticate verifies the credentials and issues a session token. Unknown
// usernames and wrong passwords fail identically with ErrInvalidCredentials.
func (a *App) Authenticate(ctx context.Context, username, password string) (string, User, error) {
	user, err := a.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", User{}, ErrInvalidCredentials
	}
	token, err := a.tokens.Sign(user)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// CanManageCategory is the permission predicate: ADMIN manages everything,
// other roles need a grant row for the category.
func (a *App) CanManageCategory(ctx context.Context, claims Claims, categoryID int64) (bool, error) {
	if claims.Role == RoleAdmin {
		return true, nil
	}
	return a.store.HasPermission(ctx, claims.UserID, categoryID)
}

// principal returns the Claims placed in the context by requireAuth.
func principal(c echo.Context) Claims {
	claims, _ := c.Get(principalKey).(Claims)
	return claims
}

// requireAuth verifies the session token (cookie first, bearer header
// second) and attaches the claims. Missing or bad tokens are 401.
func (a *App) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := extractToken(c)
		if raw == "" {
			return apiError(c, http.StatusUnauthorized, "authentication required")
		}
		claims, err := a.tokens.Verify(raw)
		if err != nil {
			return apiError(c, http.StatusUnauthorized, "invalid or expired token")
		}
		c.Set(principalKey, claims)
		return next(c)
	}
}

// requireRole rejects principals whose role is not in the allow-list.
// Runs after requireAuth and before any category gate.
func (a *App) requireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := principal(c)
			for _, r := range roles {
				if claims.Role == r {
					return next(c)
				}
			}
			return apiError(c, http.StatusForbidden, "insufficient role")
		}
	}
}

// categorySource tells requireCategoryPermission where to find the target
// category: the request body on create paths, or the referenced post's
// category on paths addressing an existing post.
type categorySource int

const (
	categoryFromBody categorySource = iota
	categoryFromPost
)

// requireCategoryPermission applies CanManageCategory to the resolved target
// category. An unresolvable category is 400, a missing grant 403.
func (a *App) requireCategoryPermission(src categorySource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := principal(c)
			if claims.Role == RoleAdmin {
				return next(c)
			}

			categoryID, err := a.resolveCategoryID(c, src)
			if err != nil || categoryID == 0 {
				return apiError(c, http.StatusBadRequest, "cannot resolve target category")
			}
			ok, err := a.CanManageCategory(c.Request().Context(), claims, categoryID)
			if err != nil {
				return storeError(c, err, "category not found")
			}
			if !ok {
				return apiError(c, http.StatusForbidden, "no permission for this category")
			}
			return next(c)
		}
	}
}

func (a *App) resolveCategoryID(c echo.Context, src categorySource) (int64, error) {
	switch src {
	case categoryFromBody:
		var body struct {
			CategoryID int64 `json:"categoryId"`
		}
		if err := bindAndRestore(c, &body); err != nil {
			return 0, err
		}
		return body.CategoryID, nil
	case categoryFromPost:
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return 0, err
		}
		post, err := a.store.GetPostByID(c.Request().Context(), id)
		if err != nil {
			return 0, err
		}
		return post.Category.ID, nil
	}
	return 0, nil
}
