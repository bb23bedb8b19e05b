package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/forecast-blend/internal/api/http"
	"github.com/i474232898/forecast-blend/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the HTTP API",
	Long: `Refresh every configured point on FETCH_INTERVAL, keep the artifacts and
index.json in OUT_DIR up to date, and serve the latest documents over HTTP.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApplication(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// Scheduler that periodically refreshes the points, the index and the tropical summary.
	opts := []scheduler.Option{
		scheduler.WithIndexer(a.indexer),
		scheduler.WithLogger(a.logger.Named("scheduler")),
	}
	if a.cache != nil {
		opts = append(opts, scheduler.WithPruner(a.cache))
	}
	if a.tropical != nil {
		opts = append(opts, scheduler.WithTropical(a.tropical))
	}
	sched := scheduler.New(a.cfg.Points, a.cfg.FetchInterval, a.service, opts...)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	app := newServer(a)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("port", a.cfg.Port))
		errCh <- app.Listen(":" + a.cfg.Port)
	}()

	// Wait for termination signal
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		a.logger.Error("error during shutdown", zap.Error(err))
	}
	return nil
}

func newServer(a *application) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "forecast-blend",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A synchronous refresh waits on both upstreams.
		WriteTimeout: a.cfg.HTTPTimeout + 10*time.Second,
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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "forecast-blend",
			"points":  len(a.cfg.Points),
			"days":    a.service.DayLimit(),
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	var tropicalReader httpapi.TropicalReader
	if a.tropical != nil {
		tropicalReader = a.tropical
	}
	httpapi.RegisterRoutes(app, a.service, a.indexer, tropicalReader, a.logger.Named("http"))
	return app
}
