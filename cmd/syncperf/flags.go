package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds each config key to the flag of the same name in fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag --%s is not defined", name)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// intFlagOrConfig returns the flag value when it was set on the command
// line, the config value otherwise.
func intFlagOrConfig(fs *pflag.FlagSet, name, key string) int {
	if fs.Changed(name) {
		if v, err := fs.GetInt(name); err == nil {
			return v
		}
	}
	return viper.GetInt(key)
}
