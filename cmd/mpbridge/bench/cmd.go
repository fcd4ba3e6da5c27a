// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/renameio/v2"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/cpu"
	"github.com/spf13/cobra"

	"github.com/luxfi/mpbridge/bridge"
	"github.com/luxfi/mpbridge/compute"
	"github.com/luxfi/mpbridge/config"
	"github.com/luxfi/mpbridge/modexp"
	"github.com/luxfi/mpbridge/utils/profiler"
	"github.com/luxfi/mpbridge/workload"
)

var errMismatch = errors.New("bridged re-encryption differs from direct re-encryption")

// Report is the JSON document written by --out.
type Report struct {
	CPU          string        `json:"cpu"`
	LogicalCores int           `json:"logicalCores"`
	Backend      string        `json:"backend"`
	Native       bool          `json:"native"`
	Verified     bool          `json:"verified"`
	Ciphertexts  int           `json:"ciphertexts"`
	Bits         int           `json:"bits"`
	Calls        int           `json:"calls"`
	Direct       time.Duration `json:"directNs"`
	Bridged      time.Duration `json:"bridgedNs"`
	Speedup      float64       `json:"speedup"`
}

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "bench",
		Short: "Compares direct and batched ElGamal re-encryption",
		RunE:  benchFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func benchFunc(c *cobra.Command, args []string) error {
	flags, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}

	logger := log.NewLogger("mpbridge")
	svc, err := compute.NewService(cfg.ComputeConfig())
	if err != nil {
		return err
	}
	b, err := bridge.New(cfg, svc, logger, prometheus.NewRegistry())
	if err != nil {
		_ = svc.Close()
		return err
	}
	defer func() {
		if err := b.Shutdown(); err != nil {
			logger.Warn("shutdown failed", log.Err(err))
		}
	}()

	report, err := run(c.Context(), b, cfg, flags, logger)
	if err != nil {
		return err
	}
	report.Backend = svc.Name()

	fmt.Printf("re-encrypted %d ciphertexts (%d-bit group, %d exponentiations)\n",
		report.Ciphertexts, report.Bits, report.Calls)
	fmt.Printf("direct:  %s\n", report.Direct)
	fmt.Printf("bridged: %s (%s, speedup %.2fx)\n", report.Bridged, report.Backend, report.Speedup)

	if flags.Out == "" {
		return nil
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(flags.Out, append(data, '\n'), 0o644)
}

func run(ctx context.Context, b *bridge.Bridge, cfg config.Config, flags *Config, logger log.Logger) (*Report, error) {
	group, err := workload.GenerateGroup(rand.Reader, flags.Bits)
	if err != nil {
		return nil, err
	}
	key, err := workload.GenerateKey(rand.Reader, group)
	if err != nil {
		return nil, err
	}

	cts := make([]workload.Ciphertext, flags.Ciphertexts)
	for i := range cts {
		m, err := group.RandomMessage(rand.Reader)
		if err != nil {
			return nil, err
		}
		r, err := group.RandomExponent(rand.Reader)
		if err != nil {
			return nil, err
		}
		cts[i] = workload.Encrypt(group, key.Public, m, r)
	}
	rs, err := group.RandomExponents(rand.Reader, flags.Ciphertexts)
	if err != nil {
		return nil, err
	}
	reEncrypt := func(ctx context.Context) ([]workload.Ciphertext, error) {
		return workload.ReEncrypt(ctx, group, key.Public, cts, rs)
	}
	logger.Info("generated workload",
		log.Int("ciphertexts", flags.Ciphertexts),
		log.Int("bits", flags.Bits),
	)

	prof := profiler.New(flags.ProfileDir)

	var want []workload.Ciphertext
	start := time.Now()
	err = prof.Profile("direct", func() error {
		var err error
		want, err = reEncrypt(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	direct := time.Since(start)

	runFn := bridge.Run[[]workload.Ciphertext]
	if flags.Verify {
		runFn = bridge.RunVerified[[]workload.Ciphertext]
	}
	var got []workload.Ciphertext
	start = time.Now()
	err = prof.Profile("bridged", func() error {
		var err error
		got, err = runFn(ctx, b, reEncrypt)
		return err
	})
	if err != nil {
		return nil, err
	}
	bridged := time.Since(start)

	for i := range want {
		if want[i].A.Cmp(got[i].A) != 0 || want[i].B.Cmp(got[i].B) != 0 {
			return nil, fmt.Errorf("%w: ciphertext %d", errMismatch, i)
		}
	}

	report := &Report{
		Native:      cfg.EnableNative && modexp.NativeAvailable,
		Verified:    flags.Verify,
		Ciphertexts: flags.Ciphertexts,
		Bits:        flags.Bits,
		Calls:       2 * flags.Ciphertexts,
		Direct:      direct,
		Bridged:     bridged,
	}
	if bridged > 0 {
		report.Speedup = float64(direct) / float64(bridged)
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		report.CPU = infos[0].ModelName
	}
	if n, err := cpu.Counts(true); err == nil {
		report.LogicalCores = n
	}
	return report, nil
}
