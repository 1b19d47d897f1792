package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artique/internal/service"
	"github.com/Skotchmaster/artique/internal/transport"
	"github.com/Skotchmaster/artique/internal/util"
	"github.com/Skotchmaster/artique/pkg/logging"
	authmw "github.com/Skotchmaster/artique/pkg/middleware/auth"
)

const headerTotalCount = "X-Total-Count"

type ItemsHTTP struct {
	Svc *service.ItemService
}

// List returns every item unless ?page= is given.
func (h *ItemsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.list")

	page := 0
	if c.QueryParam("page") != "" {
		page = util.ParseIntDefault(c.QueryParam("page"), 1)
		if page < 1 {
			page = 1
		}
	}
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	total, items, err := h.Svc.List(ctx, page, size)
	if err != nil {
		return serviceError(l, "items_list_error", err)
	}

	c.Response().Header().Set(headerTotalCount, strconv.FormatInt(total, 10))
	return c.JSON(http.StatusOK, items)
}

func (h *ItemsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.get")

	id, ok := parseID(c)
	if !ok {
		l.Warn("item_get_error", "status", 400, "reason", "invalid id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	item, err := h.Svc.Get(ctx, id)
	if err != nil {
		return serviceError(l, "item_get_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemsHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return serviceError(l, "items_search_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"items": items,
	})
}

func (h *ItemsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.create")

	who, ok := authmw.IdentityFrom(c)
	if !ok {
		return authmw.ErrMissingToken
	}

	var req transport.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("item_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Create(ctx, req, who.UserID)
	if err != nil {
		return serviceError(l, "item_create_error", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "item created",
		"item":    item,
	})
}

func (h *ItemsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.update")

	who, ok := authmw.IdentityFrom(c)
	if !ok {
		return authmw.ErrMissingToken
	}

	id, ok := parseID(c)
	if !ok {
		l.Warn("item_update_error", "status", 400, "reason", "invalid id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req transport.PatchItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("item_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Update(ctx, id, req, who.UserID)
	if err != nil {
		return serviceError(l, "item_update_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "item updated",
		"item":    item,
	})
}

func (h *ItemsHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items.delete")

	who, ok := authmw.IdentityFrom(c)
	if !ok {
		return authmw.ErrMissingToken
	}

	id, ok := parseID(c)
	if !ok {
		l.Warn("item_delete_error", "status", 400, "reason", "invalid id", "id", c.Param("id"))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	if err := h.Svc.Delete(ctx, id, who.UserID); err != nil {
		return serviceError(l, "item_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
