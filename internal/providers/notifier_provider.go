package providers

import (
	"benchstore/internal/structures"
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type NotifierInterface interface {
	Notify(ctx context.Context, text string) error
}

// SlackNotifier posts regression alerts to an incoming webhook.
type SlackNotifier struct {
	webhook string
	logger  Logger
}

func NewNotifierProvider(conf *structures.Config, logger Logger) NotifierInterface {
	if conf.Alert.SlackWebhook == "" {
		return &noopNotifier{}
	}
	return &SlackNotifier{webhook: conf.Alert.SlackWebhook, logger: logger}
}

func (n *SlackNotifier) Notify(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{Text: text}
	if err := slack.PostWebhookContext(ctx, n.webhook, msg); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	n.logger.Debugf(TypeApp, "Slack notification sent (%d bytes)", len(text))
	return nil
}

type noopNotifier struct{}

func (n *noopNotifier) Notify(_ context.Context, _ string) error { return nil }
