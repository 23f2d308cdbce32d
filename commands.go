package main

import (
	"context"
	"fmt"
	"time"

	"autolog/internal/app"
	"autolog/internal/config"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "autolog",
		Usage: "Vehicle and maintenance log API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional configuration file",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			mailWorkerCommand(),
		},
	}
}

// setup loads the configuration named by --config and a logger at its level.
func setup(cmd *cli.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logger, err := app.NewLogger(nil, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return cfg, logger, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			st, err := app.OpenStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())
			if err := st.Migrate(ctx); err != nil {
				return err
			}

			mail, closeMail, err := app.OpenMailer(cfg, logger)
			if err != nil {
				return err
			}
			defer closeMail()

			server := app.New(app.Deps{
				Config:    cfg,
				Store:     st,
				Mailer:    mail,
				Logger:    logger,
				AccessLog: true,
			})

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", "addr", cfg.AppPort)
				errCh <- server.Listen(cfg.AppPort)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			logger.Info("shutting down server")
			if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
				logger.Error("error during shutdown", "err", err)
			}
			logger.Info("server gracefully stopped")
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create tables or indexes for the configured store",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			st, err := app.OpenStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if err := st.Migrate(ctx); err != nil {
				return err
			}
			logger.Info("migration complete", "driver", cfg.StoreDriver)
			return nil
		},
	}
}

func mailWorkerCommand() *cli.Command {
	return &cli.Command{
		Name:  "mail-worker",
		Usage: "Deliver queued email through SendGrid",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateWorker(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return app.RunMailWorker(ctx, cfg, logger)
		},
	}
}
