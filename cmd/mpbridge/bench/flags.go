// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"errors"

	"github.com/spf13/pflag"
)

const (
	ConfigKey      = "config"
	CiphertextsKey = "ciphertexts"
	BitsKey        = "bits"
	VerifyKey      = "verify"
	OutKey         = "out"
	ProfileDirKey  = "profile-dir"
)

var (
	errNoCiphertexts = errors.New("ciphertexts must be positive")
	errTooFewBits    = errors.New("bits must be at least 16")
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(ConfigKey, "", "Path to a JSON bridge configuration")
	flags.Int(CiphertextsKey, 256, "Number of ciphertexts to re-encrypt")
	flags.Int(BitsKey, 2048, "Size in bits of the group prime")
	flags.Bool(VerifyKey, false, "Check every replayed call against its recorded operands")
	flags.String(OutKey, "", "Write a JSON report to this path")
	flags.String(ProfileDirKey, "", "Write CPU and heap profiles of both runs to this directory")
}

type Config struct {
	ConfigPath  string
	Ciphertexts int
	Bits        int
	Verify      bool
	Out         string
	ProfileDir  string
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	configPath, err := flags.GetString(ConfigKey)
	if err != nil {
		return nil, err
	}

	ciphertexts, err := flags.GetInt(CiphertextsKey)
	if err != nil {
		return nil, err
	}
	if ciphertexts <= 0 {
		return nil, errNoCiphertexts
	}

	bits, err := flags.GetInt(BitsKey)
	if err != nil {
		return nil, err
	}
	if bits < 16 {
		return nil, errTooFewBits
	}

	verify, err := flags.GetBool(VerifyKey)
	if err != nil {
		return nil, err
	}

	out, err := flags.GetString(OutKey)
	if err != nil {
		return nil, err
	}

	profileDir, err := flags.GetString(ProfileDirKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		ConfigPath:  configPath,
		Ciphertexts: ciphertexts,
		Bits:        bits,
		Verify:      verify,
		Out:         out,
		ProfileDir:  profileDir,
	}, nil
}
