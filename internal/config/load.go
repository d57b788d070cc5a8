package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. SYNCPERF_WORKERS or SYNCPERF_ARCHIVE_DSN.
const EnvPrefix = "SYNCPERF"

// Load initializes the configuration from file and environment variables.
// A missing config file is not an error; defaults apply.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.config/syncperf")
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("syncperf")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	return nil
}

// SetDefaults registers the default value of every known key.
func SetDefaults() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("no_color", false)
	viper.SetDefault("workers", 4)
	viper.SetDefault("metrics_port", 0)

	viper.SetDefault("report.baseline", "naive_promise")
	viper.SetDefault("report.family", "static_step")
	viper.SetDefault("report.param", "step")

	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("archive.type", "sqlite")
	viper.SetDefault("archive.dsn", ".syncperf.db")

	// Slack is enabled implicitly when a bot token is present.
	slackEnabled := os.Getenv("SLACK_BOT_USER_TOKEN") != ""
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
	viper.SetDefault("notifications.slack.webhook_url", "")
	viper.SetDefault("notifications.slack.events.on_success", true)
	viper.SetDefault("notifications.slack.events.on_failure", true)
}

// ReportSettings names the strategies the ratio report compares.
type ReportSettings struct {
	Baseline string // unparameterized reference strategy
	Family   string // parameterized strategy family
	Param    string // parameter distinguishing family members
}

// Report returns the current report settings.
func Report() ReportSettings {
	return ReportSettings{
		Baseline: viper.GetString("report.baseline"),
		Family:   viper.GetString("report.family"),
		Param:    viper.GetString("report.param"),
	}
}

// ArchiveSettings configures the result archive.
type ArchiveSettings struct {
	Enabled bool
	Type    string
	DSN     string
}

// Archive returns the current archive settings.
func Archive() ArchiveSettings {
	return ArchiveSettings{
		Enabled: viper.GetBool("archive.enabled"),
		Type:    viper.GetString("archive.type"),
		DSN:     viper.GetString("archive.dsn"),
	}
}
