package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/elskow/legoset/internal/api"
)

type Handler struct {
	service  *Service
	sessions *SessionManager
	log      *zap.Logger
}

func NewHandler(service *Service, sessions *SessionManager, log *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET(api.RouteLogin, h.LoginPage)
	e.POST(api.RouteLogin, h.Login)
	e.GET(api.RouteRegister, h.RegisterPage)
	e.POST(api.RouteRegister, h.Register)
	e.GET(api.RouteLogout, h.Logout)
	e.GET(api.RouteUserHistory, h.UserHistory)
}

func (h *Handler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login", echo.Map{
		"errorMessage": "",
		"userName":     "",
	})
}

func (h *Handler) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return c.Render(http.StatusOK, "login", echo.Map{
			"errorMessage": "invalid login form",
			"userName":     "",
		})
	}
	creds.UserAgent = c.Request().UserAgent()

	user, err := h.service.Verify(c.Request().Context(), creds)
	if err != nil {
		h.log.Info("login rejected", zap.String("username", creds.UserName), zap.Error(err))
		return c.Render(http.StatusOK, "login", echo.Map{
			"errorMessage": err.Error(),
			"userName":     creds.UserName,
		})
	}

	if _, err := h.sessions.Start(c, user); err != nil {
		h.log.Error("failed to start session", zap.String("username", user.UserName), zap.Error(err))
		return c.Render(http.StatusOK, "login", echo.Map{
			"errorMessage": err.Error(),
			"userName":     creds.UserName,
		})
	}

	return c.Redirect(http.StatusFound, api.RouteSets)
}

func (h *Handler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register", echo.Map{
		"errorMessage":   "",
		"successMessage": "",
		"userName":       "",
	})
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.Render(http.StatusOK, "register", echo.Map{
			"errorMessage":   "invalid registration form",
			"successMessage": "",
			"userName":       "",
		})
	}

	if err := h.service.Register(c.Request().Context(), in); err != nil {
		return c.Render(http.StatusOK, "register", echo.Map{
			"errorMessage":   err.Error(),
			"successMessage": "",
			"userName":       in.UserName,
		})
	}

	return c.Render(http.StatusOK, "register", echo.Map{
		"errorMessage":   "",
		"successMessage": "User created",
		"userName":       "",
	})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.sessions.End(c); err != nil {
		h.log.Error("failed to revoke session", zap.Error(err))
	}
	return c.Redirect(http.StatusFound, api.RouteHome)
}

func (h *Handler) UserHistory(c echo.Context) error {
	s, _ := SessionFromContext(c)
	return c.Render(http.StatusOK, "userHistory", echo.Map{
		"loginHistory": s.LoginHistory,
	})
}
