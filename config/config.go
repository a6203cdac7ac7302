// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the engine's runtime configuration: the local
// base directory, and the host/port the listener binds. Precedence,
// highest first: CLI flags, environment variables (DBGPENGINE_*),
// configuration file, built-in defaults.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the facade's startup configuration.
type Config struct {
	BasePath string `mapstructure:"base_path"`
	Host     string `mapstructure:"host"`
	Port     uint16 `mapstructure:"port"`
}

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 9000
)

// BindFlags registers the flags Load reads back via viper, so a cobra
// command can expose --base-path, --host and --port.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("base-path", "", "local directory source files are read relative to")
	flags.String("host", DefaultHost, "address the listener binds to")
	flags.Uint16("port", DefaultPort, "port the listener binds to")
}

// Load builds a Config from bound flags, DBGPENGINE_* environment
// variables, and an optional config file (cfgFile; ignored if empty and
// not found at the default location).
func Load(flags *pflag.FlagSet, cfgFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DBGPENGINE")
	v.AutomaticEnv()

	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("dbgpengine")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dbgpengine")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("config: reading default config: %w", err)
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("config: binding flags: %w", err)
		}
	}

	var cfg Config
	cfg.Host = v.GetString("host")
	cfg.Port = uint16(v.GetUint("port"))
	cfg.BasePath = v.GetString("base-path")
	if cfg.BasePath == "" {
		cfg.BasePath = v.GetString("base_path")
	}
	if cfg.BasePath == "" {
		return Config{}, fmt.Errorf("config: base-path is required")
	}
	return cfg, nil
}
