package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncperf/internal/benchmark"
)

type mockSlackPoster struct {
	channels []string
	err      error
}

func (m *mockSlackPoster) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	return channelID, "1700000000.000100", m.err
}

type mockNotifier struct {
	messages []string
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, message string) error {
	m.messages = append(m.messages, message)
	return m.err
}

func resetViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestNewManager_Disabled(t *testing.T) {
	resetViper(t)
	t.Setenv("SLACK_BOT_USER_TOKEN", "xoxb-test")
	viper.Set("notifications.slack.enabled", false)

	m := NewManager()
	assert.False(t, m.Active())
	assert.NoError(t, m.Notify(context.Background(), EventSuccess, "ignored"))
}

func TestNewManager_Providers(t *testing.T) {
	resetViper(t)
	t.Setenv("SLACK_BOT_USER_TOKEN", "xoxb-test")
	viper.Set("notifications.slack.enabled", true)
	viper.Set("notifications.slack.channel", "#perf")
	viper.Set("notifications.slack.webhook_url", "https://hooks.slack.test/x")

	m := NewManager()
	assert.True(t, m.Active())
	assert.NotNil(t, m.client)
	assert.NotNil(t, m.webhook)
	assert.Equal(t, "#perf", m.channelID)
}

func TestManager_Notify(t *testing.T) {
	resetViper(t)
	viper.Set("notifications.slack.enabled", true)
	viper.Set("notifications.slack.events.on_success", true)
	viper.Set("notifications.slack.events.on_failure", false)

	poster := &mockSlackPoster{}
	hook := &mockNotifier{}
	m := &Manager{client: poster, webhook: hook}

	require.NoError(t, m.Notify(context.Background(), EventSuccess, "done"))
	assert.Equal(t, []string{"#general"}, poster.channels)
	assert.Equal(t, []string{"done"}, hook.messages)

	require.NoError(t, m.Notify(context.Background(), EventFailure, "failed"))
	assert.Len(t, hook.messages, 1, "disabled events are not sent")
}

func TestManager_Notify_JoinsErrors(t *testing.T) {
	resetViper(t)
	viper.Set("notifications.slack.enabled", true)
	viper.Set("notifications.slack.events.on_failure", true)

	botErr := errors.New("channel_not_found")
	hookErr := errors.New("status 500")
	m := &Manager{
		client:    &mockSlackPoster{err: botErr},
		channelID: "#perf",
		webhook:   &mockNotifier{err: hookErr},
	}

	err := m.Notify(context.Background(), EventFailure, "boom")
	assert.ErrorIs(t, err, botErr)
	assert.ErrorIs(t, err, hookErr)
}

func TestMessages(t *testing.T) {
	sel := benchmark.SelectionResult{Identity: benchmark.Parameterized("static_step", "f", "step", "2"), Mean: 0.5}
	assert.Contains(t, SelectionMessage("runs/1", sel), "*static_step.f.2*")
	assert.Contains(t, SelectionMessage("runs/1", sel), "0.5")
	assert.Contains(t, FailureMessage("runs/2", errors.New("no groups")), "runs/2: analysis failed: no groups")
}
