package authmw

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artique/pkg/logging"
	"github.com/Skotchmaster/artique/pkg/tokens"
)

const ctxIdentity = "identity"

var (
	ErrMissingToken = echo.NewHTTPError(http.StatusUnauthorized, "authentication token missing")
	ErrInvalidToken = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	ErrForbidden    = echo.NewHTTPError(http.StatusForbidden, "access denied")
)

type Verifier interface {
	Verify(token string) (*tokens.AccessClaims, error)
}

// Identity is the authenticated caller as decoded from a verified token.
type Identity struct {
	UserID uint
	Role   string
}

type identityKey struct{}

type Auth struct {
	Tokens Verifier
}

func New(v Verifier) *Auth {
	return &Auth{Tokens: v}
}

// RequireAuth verifies the bearer token (or the token cookie when no
// Authorization header is sent) and stores the caller's Identity.
func (a *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx)

		raw, err := tokenFromRequest(c)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "missing token")
			return err
		}

		claims, err := a.Tokens.Verify(raw)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid token")
			return ErrInvalidToken
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || userID == 0 {
			l.Warn("auth_failed", "status", 401, "reason", "bad subject")
			return ErrInvalidToken
		}

		id := Identity{UserID: uint(userID), Role: claims.Role}
		c.Set(ctxIdentity, id)

		ctx = IntoContext(ctx, id)
		ctx = logging.IntoContext(ctx, l.With("user_id", id.UserID))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return ErrMissingToken
			}
			if !slices.Contains(roles, id.Role) {
				logging.FromContext(c.Request().Context()).Warn("auth_forbidden", "status", 403, "role", id.Role, "required", roles)
				return ErrForbidden
			}
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ctxIdentity).(Identity)
	return id, ok
}

func IntoContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func tokenFromRequest(c echo.Context) (string, error) {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	}

	if ck, err := c.Cookie(tokens.CookieName); err == nil && ck.Value != "" {
		return ck.Value, nil
	}
	return "", ErrMissingToken
}
