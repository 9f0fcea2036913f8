// Command placereview runs the placereview HTTP API.
//
// @title Placereview API
// @version 1.0
// @description Users, locations and the reviews users write about them.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/user/placereview-go/config"
	"github.com/user/placereview-go/db"
	"github.com/user/placereview-go/logger"
	"github.com/user/placereview-go/server"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "placereview: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "placereview",
		Usage: "users, locations and reviews over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before reading the environment",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "listen port (overrides PORT)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "zerolog level (overrides LOG_LEVEL)",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "create the schema if needed and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "init-db",
				Usage:  "create the database schema and exit",
				Action: initDB,
			},
		},
	}
}

// setup loads the environment and configuration shared by every command.
func setup(c *cli.Context) (*config.AppConfig, zerolog.Logger, error) {
	envErr := godotenv.Load(c.String("env-file"))

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if port := c.String("port"); port != "" {
		cfg.Server.Port = port
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	log := logger.New(cfg.Log)
	if envErr != nil {
		log.Warn().Err(envErr).Str("file", c.String("env-file")).Msg("env file not loaded")
	}
	return cfg, log, nil
}

func initDB(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.EnsureSchema(c.Context, conn); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.DB.Driver).Msg("schema ready")
	return nil
}

func serve(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.EnsureSchema(c.Context, conn); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.NewRouter(conn, server.NewServices(conn), log, cfg.Server),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.DB.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("server shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}
