package inkwell

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// authCookieName is the HttpOnly cookie carrying the session token.
const authCookieName = "auth_token"

// Claims is the signed, stateless session payload. Nothing is persisted
// server-side; role changes take effect on the next token issuance.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a single HS256 secret.
type TokenService struct {
	secret  []byte
	expires time.Duration
}

// NewTokenService panics on an empty secret: running without one would make
// every issued token forgeable.
func NewTokenService(secret string, expires time.Duration) *TokenService {
	if secret == "" {
		panic("inkwell: token service requires a secret")
	}
	if expires <= 0 {
		expires = 7 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expires: expires}
}

// Sign issues a token for u, valid for the configured expiry.
func (t *TokenService) Sign(u User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expires)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates raw, returning its claims. Bad signatures and
// expired tokens both surface as an error; callers treat that as
// "unauthenticated", never as a server fault.
func (t *TokenService) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// MaxAge returns the cookie lifetime in seconds.
func (t *TokenService) MaxAge() int {
	return int(t.expires / time.Second)
}

// extractToken returns the raw session token from the request. The cookie
// wins over the Authorization header when both are present.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(authCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// extractTokenFromRequest is the http.Request variant used by SSR loaders,
// which see the forwarded request rather than an echo context.
func extractTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(authCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func (a *App) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   a.tokens.MaxAge(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.cfg.CookieSecure,
	})
}

func (a *App) clearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.cfg.CookieSecure,
	})
}
