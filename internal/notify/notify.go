// Package notify is the external chat-notification collaborator (spec
// §1's "email/chat notification transports" are explicitly out of
// core scope, but the core talks to one through this interface). The
// Slack transport uses github.com/slack-go/slack, the chat library
// declared in jordigilh-kubernaut's dependency surface.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"migaudit/internal/model"
	"migaudit/pkg/logger"
)

// Notifier is told about a project's terminal state. The pipeline
// controller calls it after a stage failure or after the final stage
// completes; a nil Notifier is a valid no-op configuration.
type Notifier interface {
	ProjectCompleted(ctx context.Context, project *model.Project) error
	ProjectFailed(ctx context.Context, project *model.Project) error
}

// SlackNotifier posts migration-audit outcomes to a Slack channel via
// an incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	log        *logger.Logger
}

func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		log:        logger.GetLogger().WithField("component", "slack_notifier"),
	}
}

func (n *SlackNotifier) ProjectCompleted(ctx context.Context, project *model.Project) error {
	return n.post(fmt.Sprintf(":white_check_mark: Migration audit `%s` completed (%s → %s)", project.ID, project.OldBaseURL, project.NewBaseURL))
}

func (n *SlackNotifier) ProjectFailed(ctx context.Context, project *model.Project) error {
	return n.post(fmt.Sprintf(":x: Migration audit `%s` failed at stage `%s`: %s", project.ID, project.Progress.Stage, project.Progress.Error))
}

func (n *SlackNotifier) post(text string) error {
	msg := &slack.WebhookMessage{Channel: n.channel, Text: text}
	if err := slack.PostWebhook(n.webhookURL, msg); err != nil {
		n.log.WithError(err).Warn("failed to post slack notification")
		return err
	}
	return nil
}

// NoopNotifier discards every notification; used when no webhook is
// configured.
type NoopNotifier struct{}

func (NoopNotifier) ProjectCompleted(ctx context.Context, project *model.Project) error { return nil }
func (NoopNotifier) ProjectFailed(ctx context.Context, project *model.Project) error    { return nil }
