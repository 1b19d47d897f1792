package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artique/internal/service"
)

// serviceError logs err under event and converts it into the HTTP error
// the client sees. Unknown errors never leak their text.
func serviceError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail):
		l.Warn(event, "status", 409, "reason", "duplicate email")
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(event, "status", 401, "reason", "invalid credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrNotFoundOrUnauthorized):
		l.Warn(event, "status", 404, "reason", "not found or not owner")
		return echo.NewHTTPError(http.StatusNotFound, "item not found or you are not its owner")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "item not found")
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	case errors.Is(err, service.ErrUserNotFound):
		l.Warn(event, "status", 404, "reason", "user not found")
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
