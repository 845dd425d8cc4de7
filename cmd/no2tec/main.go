package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/sgsy4c2zh7-tech/NO2-TEC/internal/api/http"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas/resolver"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/config"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/render"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/scheduler"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/view"
	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/web"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound data-tree reads.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Resource resolver over the published JSON tree.
	res := resolver.New(httpClient, cfg.DataBaseURL)

	// Selection state plus the pipeline rendering it.
	state := view.NewState(cfg.DefaultKind)
	pipeline := render.New(state, res)

	// Boot: resolve the latest date (or fall back to today) and render once.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	v := pipeline.Boot(bootCtx)
	bootCancel()
	log.Printf("INFO: boot render: %s", v.Status)

	// Scheduler keeping the view in step with out-of-band data updates.
	sched := scheduler.New(pipeline, cfg.RefreshInterval, 30*time.Second)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "no2tec-atlas",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "no2tec-atlas",
		})
	})

	// Map page and API routes.
	web.RegisterRoutes(app)
	httpapi.RegisterRoutes(app, state, pipeline)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
