package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"

	"syncperf/internal/benchmark"
)

// Event types
const (
	EventSuccess = "on_success"
	EventFailure = "on_failure"
)

// slackPoster is the subset of the Slack API client the manager uses.
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Manager routes analysis events to the configured Slack bot and webhook.
type Manager struct {
	client    slackPoster
	channelID string
	webhook   Notifier
}

// NewManager creates a Manager from the notifications.slack config keys.
// The bot token is read from SLACK_BOT_USER_TOKEN.
func NewManager() *Manager {
	m := &Manager{}
	if !viper.GetBool("notifications.slack.enabled") {
		return m
	}

	if token := os.Getenv("SLACK_BOT_USER_TOKEN"); token != "" {
		m.client = slack.New(token)
		m.channelID = viper.GetString("notifications.slack.channel")
	}
	if url := viper.GetString("notifications.slack.webhook_url"); url != "" {
		m.webhook = NewSlackNotifier(url)
	}
	if m.client == nil && m.webhook == nil {
		slog.Warn("slack notifications enabled but neither SLACK_BOT_USER_TOKEN nor a webhook URL is set")
	}
	return m
}

// Active reports whether at least one provider is configured.
func (m *Manager) Active() bool {
	return m.client != nil || m.webhook != nil
}

func (m *Manager) isEnabled(eventType string) bool {
	return viper.GetBool("notifications.slack.enabled") &&
		viper.GetBool("notifications.slack.events."+eventType)
}

// Notify sends message to every configured provider when the event is
// enabled. Provider failures are joined into one error.
func (m *Manager) Notify(ctx context.Context, eventType, message string) error {
	if !m.Active() || !m.isEnabled(eventType) {
		return nil
	}
	slog.Debug("sending notification", "event", eventType)

	var errs []error
	if m.client != nil {
		channelID := m.channelID
		if channelID == "" {
			channelID = "#general"
		}
		if _, _, err := m.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(message, false)); err != nil {
			errs = append(errs, fmt.Errorf("slack bot: %w", err))
		}
	}
	if m.webhook != nil {
		if err := m.webhook.Notify(ctx, message); err != nil {
			errs = append(errs, fmt.Errorf("slack webhook: %w", err))
		}
	}
	return errors.Join(errs...)
}

// SelectionMessage describes a successful analysis.
func SelectionMessage(label string, sel benchmark.SelectionResult) string {
	return fmt.Sprintf(":stopwatch: %s: best synchronization is *%s* (average %g s)", label, sel.Identity.Name(), sel.Mean)
}

// FailureMessage describes a failed analysis.
func FailureMessage(label string, err error) string {
	return fmt.Sprintf(":x: %s: analysis failed: %v", label, err)
}
