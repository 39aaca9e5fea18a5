package catalog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/elskow/legoset/internal/api"
)

const (
	msgNoSetsForTheme = "No Sets found for a matching theme"
	msgSetNotFound    = "Unable to find requested set"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET(api.RouteSets, h.ListSets)
	e.GET(api.RouteSet, h.GetSet)
	e.GET(api.RouteAddSet, h.AddSetPage)
	e.POST(api.RouteAddSet, h.AddSet)
	e.GET(api.RouteEditSetNum, h.EditSetPage)
	e.POST(api.RouteEditSet, h.EditSet)
	e.POST(api.RouteEditSetNum, h.EditSet)
	e.GET(api.RouteDeleteSet, h.DeleteSet)
}

func (h *Handler) ListSets(c echo.Context) error {
	sets, err := h.service.ListSets(c.Request().Context(), c.QueryParam("theme"))
	if err != nil {
		if errors.Is(err, ErrNoSetsFound) {
			return h.notFound(c, msgNoSetsForTheme)
		}
		return h.serverError(c, err)
	}

	return c.Render(http.StatusOK, "sets", echo.Map{
		"sets":  sets,
		"theme": c.QueryParam("theme"),
	})
}

func (h *Handler) GetSet(c echo.Context) error {
	set, err := h.service.GetSet(c.Request().Context(), c.Param("setNum"))
	if err != nil {
		if errors.Is(err, ErrSetNotFound) {
			return h.notFound(c, msgSetNotFound)
		}
		return h.serverError(c, err)
	}

	return c.Render(http.StatusOK, "set", echo.Map{
		"set": set,
	})
}

func (h *Handler) AddSetPage(c echo.Context) error {
	themes, err := h.service.ListThemes(c.Request().Context())
	if err != nil {
		return h.serverError(c, err)
	}

	return c.Render(http.StatusOK, "addSet", echo.Map{
		"themes": themes,
	})
}

func (h *Handler) AddSet(c echo.Context) error {
	var in SetInput
	if err := c.Bind(&in); err != nil {
		return h.serverError(c, err)
	}

	if _, err := h.service.AddSet(c.Request().Context(), in); err != nil {
		return h.serverError(c, err)
	}
	return c.Redirect(http.StatusFound, api.RouteSets)
}

func (h *Handler) EditSetPage(c echo.Context) error {
	set, themes, err := h.service.EditView(c.Request().Context(), c.Param("setNum"))
	if err != nil {
		if errors.Is(err, ErrSetNotFound) {
			return h.notFound(c, msgSetNotFound)
		}
		return h.serverError(c, err)
	}

	return c.Render(http.StatusOK, "editSet", echo.Map{
		"set":    set,
		"themes": themes,
	})
}

func (h *Handler) EditSet(c echo.Context) error {
	var in SetInput
	if err := c.Bind(&in); err != nil {
		return h.serverError(c, err)
	}

	if err := h.service.EditSet(c.Request().Context(), c.Param("setNum"), in); err != nil {
		return h.serverError(c, err)
	}
	return c.Redirect(http.StatusFound, api.RouteSets)
}

func (h *Handler) DeleteSet(c echo.Context) error {
	if err := h.service.DeleteSet(c.Request().Context(), c.Param("setNum")); err != nil {
		return h.serverError(c, err)
	}
	return c.Redirect(http.StatusFound, api.RouteSets)
}

func (h *Handler) notFound(c echo.Context, message string) error {
	return c.Render(http.StatusNotFound, "404", echo.Map{
		"message": message,
	})
}

// serverError shows the raw cause to the caller.
func (h *Handler) serverError(c echo.Context, err error) error {
	h.log.Error("catalog request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.Error(err))
	return c.Render(http.StatusInternalServerError, "500", echo.Map{
		"message": fmt.Sprintf("Internal Server Error: %v", err),
	})
}
