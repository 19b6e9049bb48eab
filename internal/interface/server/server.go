package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/internal/interface/middleware"
	"github.com/stwebyy/rally-track-sub001/internal/interface/validator"
	"github.com/stwebyy/rally-track-sub001/pkg/config"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// Server はHTTPサーバーを表します
type Server struct {
	echo *echo.Echo
	cfg  *config.Config
}

// New は新しいServerを作成します
func New(cfg *config.Config) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	cv, err := validator.NewCustomValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	e.Validator = cv
	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Use(middleware.RequestID)
	e.Use(middleware.Recover)
	e.Use(middleware.RequestLogger)
	e.Use(middleware.CORS(cfg.Security.CORSOrigins))

	return &Server{echo: e, cfg: cfg}, nil
}

// Echo は内部のechoインスタンスを返します
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start はHTTPサーバーを起動します
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	logger.Info(context.Background(), "starting http server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown はHTTPサーバーを停止します
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}
