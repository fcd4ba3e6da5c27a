// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package profiler captures CPU and heap profiles around labelled sections of
// work.
package profiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
)

const (
	cpuSuffix  = ".cpu.profile"
	heapSuffix = ".mem.profile"

	dirPerms  = 0o755
	filePerms = 0o644
)

var (
	errCPUProfilerRunning    = errors.New("cpu profiler already running")
	errCPUProfilerNotRunning = errors.New("cpu profiler not running")
)

// Profiler writes <label>.cpu.profile and <label>.mem.profile files into a
// directory. A nil *Profiler profiles nothing.
type Profiler struct {
	dir     string
	cpuFile *os.File
}

// New returns a Profiler writing into dir, or nil when dir is empty.
func New(dir string) *Profiler {
	if dir == "" {
		return nil
	}
	return &Profiler{dir: dir}
}

// Profile runs f with the CPU profiler on and writes a heap profile once f
// returns.
func (p *Profiler) Profile(label string, f func() error) error {
	if p == nil {
		return f()
	}
	if err := p.StartCPUProfiler(label); err != nil {
		return err
	}
	fErr := f()
	if err := p.StopCPUProfiler(); err != nil {
		return errors.Join(fErr, err)
	}
	if fErr != nil {
		return fErr
	}
	return p.MemoryProfile(label)
}

func (p *Profiler) StartCPUProfiler(label string) error {
	if p.cpuFile != nil {
		return errCPUProfilerRunning
	}
	file, err := p.create(label + cpuSuffix)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		file.Close()
		return fmt.Errorf("start cpu profile %s: %w", label, err)
	}
	p.cpuFile = file
	return nil
}

func (p *Profiler) StopCPUProfiler() error {
	if p.cpuFile == nil {
		return errCPUProfilerNotRunning
	}
	pprof.StopCPUProfile()
	err := p.cpuFile.Close()
	p.cpuFile = nil
	return err
}

func (p *Profiler) MemoryProfile(label string) error {
	file, err := p.create(label + heapSuffix)
	if err != nil {
		return err
	}
	defer file.Close()

	runtime.GC()
	return pprof.WriteHeapProfile(file)
}

func (p *Profiler) create(name string) (*os.File, error) {
	if err := os.MkdirAll(p.dir, dirPerms); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(p.dir, name), os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerms)
}
