package app

import (
	"context"

	"autolog/internal/config"
	"autolog/internal/mailer"
	"autolog/pkg/rabbitmq"

	"github.com/charmbracelet/log"
)

// OpenMailer builds the transport named by cfg.MailTransport. The returned
// close func is never nil.
func OpenMailer(cfg *config.Config, logger *log.Logger) (mailer.Mailer, func() error, error) {
	noop := func() error { return nil }

	switch cfg.MailTransport {
	case "sendgrid":
		return mailer.NewSendGridMailer(sendGridConfig(cfg), logger), noop, nil
	case "queue":
		client, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:    cfg.RabbitMQURL,
			Queues: []string{cfg.MailQueue},
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		return mailer.NewQueueMailer(client, cfg.MailQueue), client.Close, nil
	default:
		return mailer.NewLogMailer(logger), noop, nil
	}
}

func sendGridConfig(cfg *config.Config) mailer.SendGridConfig {
	return mailer.SendGridConfig{
		APIKey:        cfg.SendGridAPIKey,
		From:          cfg.MailFrom,
		FromName:      cfg.MailFromName,
		RatePerSecond: cfg.MailRatePerSec,
	}
}

// RunMailWorker relays queued messages to SendGrid until ctx is canceled.
func RunMailWorker(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	client, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:    cfg.RabbitMQURL,
		Queues: []string{cfg.MailQueue},
	}, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	relay := mailer.NewRelay(mailer.NewSendGridMailer(sendGridConfig(cfg), logger), logger)
	if err := client.Consume(ctx, cfg.MailQueue, relay.Handle); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("mail worker stopping")
	return nil
}
