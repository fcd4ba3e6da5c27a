// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"time"

	"github.com/spf13/pflag"
)

const (
	ConfigKey          = "config"
	ListenKey          = "listen"
	AllowedOriginsKey  = "allowed-origins"
	ShutdownTimeoutKey = "shutdown-timeout"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(ConfigKey, "", "Path to a JSON bridge configuration")
	flags.String(ListenKey, "127.0.0.1:9650", "Address to serve the compute API on")
	flags.StringSlice(AllowedOriginsKey, []string{"*"}, "Origins allowed to make cross-origin requests")
	flags.Duration(ShutdownTimeoutKey, 10*time.Second, "Time to wait for in-flight requests on shutdown")
}

type Config struct {
	ConfigPath      string
	Listen          string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	configPath, err := flags.GetString(ConfigKey)
	if err != nil {
		return nil, err
	}

	listen, err := flags.GetString(ListenKey)
	if err != nil {
		return nil, err
	}

	allowedOrigins, err := flags.GetStringSlice(AllowedOriginsKey)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := flags.GetDuration(ShutdownTimeoutKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		ConfigPath:      configPath,
		Listen:          listen,
		AllowedOrigins:  allowedOrigins,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}
