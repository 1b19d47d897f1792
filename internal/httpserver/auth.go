package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artique/internal/service"
	"github.com/Skotchmaster/artique/internal/transport"
	"github.com/Skotchmaster/artique/pkg/logging"
	authmw "github.com/Skotchmaster/artique/pkg/middleware/auth"
	"github.com/Skotchmaster/artique/pkg/tokens"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return serviceError(l, "register_error", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user registered",
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return serviceError(l, "login_error", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.CookieName, res.Token, "/", res.ExpiresAt, h.CookieSecure))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(tokens.CookieName, "/", h.CookieSecure))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return authmw.ErrMissingToken
	}

	user, err := h.Svc.Me(ctx, id.UserID)
	if err != nil {
		return serviceError(l, "me_error", err)
	}

	// role as carried by the token, which is what the role gate checks
	return c.JSON(http.StatusOK, echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     id.Role,
	})
}
