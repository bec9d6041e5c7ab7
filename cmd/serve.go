package cmd

import (
	"context"
	"fmt"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"heroimage/api/rest"
	"heroimage/azure"
	"heroimage/converter"
	"heroimage/service"
)

func newServeCmd(a *application, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve content hero images over HTTP and regenerate them on request",
		Long: `Start an HTTP server on $PORT.

  GET  /images/{type}/{slug}   returns the stored WEBP hero image
  POST /images/{type}/{slug}   generates it from {"prompt", "size", "quality"}`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Sprintf("serve accepts no arguments, received %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a, opts)
		},
	}
}

func newServer(a *application, svc rest.ImageGenerator) *fiber.App {
	app := fiber.New(fiber.Config{AppName: a.cfg.AppName})
	app.Use(
		recover.New(),
		otelfiber.Middleware(),
		fiberzap.New(fiberzap.Config{Logger: a.logger}),
		compress.New(compress.Config{Level: compress.LevelBestSpeed}),
		etag.New(),
	)

	rest.NewImageController(app, a.cfg.ContentRoot, a.cfg.RequestTimeout, svc, a.logger)

	return app
}

func runServe(ctx context.Context, a *application, opts *options) error {
	publisher, err := a.publisher(opts)
	if err != nil {
		return err
	}

	svc := service.NewImageService(azure.New(a.cfg, a.logger), converter.MustStrategy(a.logger), publisher, a.logger)
	app := newServer(a, svc)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			a.logger.Error("Error shutting down server", zap.Error(err))
		}
	}()

	a.logger.Info("Serving hero images", zap.String("port", a.cfg.Port), zap.String("root", a.cfg.ContentRoot))
	if err := app.Listen(":" + a.cfg.Port); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
