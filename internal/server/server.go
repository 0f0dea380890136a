package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/Axel-LeBlanc/Eatmands/internal/activity"
	"github.com/Axel-LeBlanc/Eatmands/internal/auth"
	"github.com/Axel-LeBlanc/Eatmands/internal/catalog"
	"github.com/Axel-LeBlanc/Eatmands/internal/config"
	"github.com/Axel-LeBlanc/Eatmands/internal/order"
)

// Handler bundles the services the HTTP surface dispatches into.
type Handler struct {
	orders      *order.Service
	catalog     *catalog.Service
	staff       *auth.Service
	activityLog *activity.Log
	logger      *slog.Logger
}

func NewHandler(orders *order.Service, cat *catalog.Service, staff *auth.Service, log *activity.Log, logger *slog.Logger) *Handler {
	return &Handler{
		orders:      orders,
		catalog:     cat,
		staff:       staff,
		activityLog: log,
		logger:      logger,
	}
}

// Server runs the echo handler tree behind an http.Server, which owns the
// listener lifecycle and the graceful drain.
type Server struct {
	echo *echo.Echo
	http *http.Server
}

func New(cfg config.Server, h *Handler, tokens *auth.TokenManager, logger *slog.Logger) *Server {
	e := echo.New()
	SetupMiddleware(e, logger)
	SetupRoutes(e, h, tokens)
	return &Server{
		echo: e,
		http: &http.Server{Addr: ":" + cfg.Port, Handler: e},
	}
}

// Echo exposes the handler tree, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start begins serving and blocks until the listener stops. After Shutdown it
// returns http.ErrServerClosed.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
