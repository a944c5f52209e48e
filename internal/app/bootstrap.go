package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"
	v1 "talent-match/internal/delivery/http/routes/v1"
	"talent-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	WS        *http.Server
	Container *Container
}

// New builds the HTTP app on top of c. Background rematch runs are bound to ctx.
func New(ctx context.Context, c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(ctx, f, c)

	a := &App{Fiber: f, Container: c}
	if addr, err := ListenAddr(c.Config.App.WSPort); err == nil {
		a.WS = &http.Server{
			Addr:              addr,
			Handler:           ws.NewHandler(c.Hub, c.Logger).Mux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return a
}

// Bootstrap wires the container, applies migrations and starts the websocket hub.
// The returned cleanup stops the hub and releases connections.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	done := make(chan struct{})
	go c.Hub.Run(done)

	var once sync.Once
	cleanup := func() error {
		var err error
		once.Do(func() {
			close(done)
			err = c.Close()
		})
		return err
	}
	return New(ctx, c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(ctx context.Context, app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var cachePinger handler.Pinger
	if c.Config.Redis.Enabled {
		cachePinger = c.Cache
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, cachePinger),
		v1.Handlers{
			Match:    handler.NewMatchHandler(c.MatchingUC, c.QueryUC, c.ReportUC),
			Profile:  handler.NewProfileHandler(c.ExtractionUC),
			Weights:  handler.NewWeightsHandler(c.WeightsUC),
			Skills:   handler.NewSkillHandler(c.TaxonomyUC),
			Pipeline: handler.NewPipelineHandler(ctx, c.Rematch, c.DB, cachePinger),
		},
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
