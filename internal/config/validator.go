package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error listing
// every invalid key. Call it after Load.
func ValidateConfig() error {
	var errors []string

	if viper.IsSet("workers") {
		if workers := viper.GetInt("workers"); workers <= 0 {
			errors = append(errors, fmt.Sprintf("workers must be positive, got: %d", workers))
		}
	}

	if viper.IsSet("metrics_port") {
		port := viper.GetInt("metrics_port")
		if port < 0 || port > 65535 {
			errors = append(errors, fmt.Sprintf("metrics_port must be between 0 and 65535, got: %d", port))
		}
	}

	if viper.GetBool("archive.enabled") {
		switch strings.ToLower(viper.GetString("archive.type")) {
		case "", "sqlite", "sqlite3", "postgres", "postgresql":
		default:
			errors = append(errors, fmt.Sprintf("archive.type must be sqlite or postgres, got: %s", viper.GetString("archive.type")))
		}
	}

	for _, key := range []string{"report.baseline", "report.family", "report.param"} {
		if viper.IsSet(key) && strings.TrimSpace(viper.GetString(key)) == "" {
			errors = append(errors, fmt.Sprintf("%s must not be empty", key))
		}
	}

	if url := viper.GetString("notifications.slack.webhook_url"); url != "" && !strings.HasPrefix(url, "http") {
		errors = append(errors, fmt.Sprintf("notifications.slack.webhook_url must be an http(s) URL, got: %s", url))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errors, "\n  "))
	}
	return nil
}

// ValidateAndExit validates the configuration and exits with a non-zero code if validation fails.
func ValidateAndExit() {
	if err := ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
