package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elskow/legoset/internal/api"
)

const MsgNoRoute = "No view matched for a specific route"

// Pages serves the static views.
type Pages struct{}

func NewPages() *Pages {
	return &Pages{}
}

func (p *Pages) RegisterRoutes(e *echo.Echo) {
	e.GET(api.RouteHome, p.Home)
	e.GET(api.RouteAbout, p.About)
}

func (p *Pages) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home", nil)
}

func (p *Pages) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about", nil)
}

func NotFound(c echo.Context, message string) error {
	return c.Render(http.StatusNotFound, "404", echo.Map{
		"message": message,
	})
}

func ServerError(c echo.Context, message string) error {
	return c.Render(http.StatusInternalServerError, "500", echo.Map{
		"message": message,
	})
}
