package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/newsdesk/newsdesk/pkg/cmd"
	"github.com/newsdesk/newsdesk/pkg/config"
	"github.com/newsdesk/newsdesk/pkg/log"
	"github.com/newsdesk/newsdesk/pkg/notifier"
	"github.com/newsdesk/newsdesk/pkg/otelhelper"
)

func main() {
	command := &cli.Command{
		Name:                  "newsdesk-dispatcher",
		Usage:                 "Deliver story review notifications to the newsroom webhook",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dispatcher-id",
				Aliases: []string{"id"},
				Usage:   "Custom dispatcher ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("DISPATCHER_ID"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "webhook-url",
				Usage:   "Endpoint receiving review notifications",
				Sources: cli.EnvVars("WEBHOOK_URL"),
			},
			&cli.StringFlag{
				Name:    "routes-file",
				Usage:   "YAML file routing notifications to per-category webhooks",
				Sources: cli.EnvVars("ROUTES_FILE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			dispatcherID := command.String("dispatcher-id")
			if dispatcherID == "" {
				dispatcherID = fmt.Sprintf("dispatcher-%s", uuid.New().String()[:8])
			}

			logger := log.WithModule("newsdesk-dispatcher").With("dispatcher_id", dispatcherID)
			logger.InfoContext(ctx, "Initializing Newsdesk Dispatcher")

			tracer, err := otelhelper.NewTracer(ctx, "newsdesk-dispatcher")
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "newsdesk-dispatcher", logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			target, err := buildNotifier(command.String("routes-file"), command.String("webhook-url"))
			if err != nil {
				return err
			}

			dispatcher := NewDispatcher(
				dispatcherID,
				eventBus,
				target,
				tracer,
				logger,
			)

			return dispatcher.Start(ctx)
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

// buildNotifier prefers the routing config file; a bare webhook URL serves
// as the single-target fallback.
func buildNotifier(routesFile, webhookURL string) (notifier.Notifier, error) {
	if routesFile != "" {
		cfg, err := config.LoadNotifierConfig(routesFile)
		if err != nil {
			return nil, err
		}

		return notifier.NewRouter(cfg), nil
	}

	if webhookURL == "" {
		return nil, errors.New("either --routes-file or --webhook-url must be provided")
	}

	return notifier.NewWebhook(webhookURL), nil
}
