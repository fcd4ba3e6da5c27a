// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"context"
	"testing"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/mpbridge/bridge"
	"github.com/luxfi/mpbridge/compute"
	"github.com/luxfi/mpbridge/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr error
	}{
		{
			name: "defaults",
			want: &Config{Ciphertexts: 256, Bits: 2048},
		},
		{
			name: "all",
			args: []string{"--config", "c.json", "--ciphertexts", "8", "--bits", "64", "--verify", "--out", "r.json", "--profile-dir", "prof"},
			want: &Config{ConfigPath: "c.json", Ciphertexts: 8, Bits: 64, Verify: true, Out: "r.json", ProfileDir: "prof"},
		},
		{
			name:    "no ciphertexts",
			args:    []string{"--ciphertexts", "0"},
			wantErr: errNoCiphertexts,
		},
		{
			name:    "small group",
			args:    []string{"--bits", "8"},
			wantErr: errTooFewBits,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := pflag.NewFlagSet("bench", pflag.ContinueOnError)
			AddFlags(flags)
			got, err := ParseFlags(flags, tt.args)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRun(t *testing.T) {
	for _, verify := range []bool{false, true} {
		require := require.New(t)

		cfg := config.DefaultConfig()
		b, err := bridge.New(cfg, compute.NewParallelService(cfg.ComputeConfig()), log.NewNoOpLogger(), metric.NewRegistry())
		require.NoError(err)

		flags := &Config{Ciphertexts: 6, Bits: 128, Verify: verify, ProfileDir: t.TempDir()}
		report, err := run(context.Background(), b, cfg, flags, log.NewNoOpLogger())
		require.NoError(err)
		require.Equal(12, report.Calls)
		require.Equal(verify, report.Verified)
		require.NoError(b.Shutdown())
	}
}
