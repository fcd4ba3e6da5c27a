// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package compute

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// EnvBackend forces a backend by name, overriding the configuration.
const EnvBackend = "MPBRIDGE_COMPUTE_BACKEND"

var (
	ErrNoBackend = errors.New("no compute backend registered")

	ctors   []backendCtor
	ctorsMu sync.RWMutex
)

type backendCtor struct {
	name     string
	priority int
	new      func(Config) (Service, error)
}

// Register adds a backend constructor. When no backend is named, the highest
// non-negative priority wins; negative priorities are only used on request.
// Called from init() in backend files.
func Register(name string, priority int, ctor func(Config) (Service, error)) {
	ctorsMu.Lock()
	defer ctorsMu.Unlock()
	ctors = append(ctors, backendCtor{name: name, priority: priority, new: ctor})
}

// NewService creates the backend named by EnvBackend, then by config.Backend,
// and otherwise the highest priority backend.
func NewService(config Config) (Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	sorted := sortedCtors()
	if len(sorted) == 0 {
		return nil, ErrNoBackend
	}

	name := config.Backend
	if env := os.Getenv(EnvBackend); env != "" {
		name = env
	}
	if name != "" {
		for _, c := range sorted {
			if strings.EqualFold(c.name, name) {
				return c.new(config)
			}
		}
		return nil, fmt.Errorf("requested backend %q not available", name)
	}

	if sorted[0].priority < 0 {
		return nil, ErrNoBackend
	}
	return sorted[0].new(config)
}

// AvailableBackends returns the names of all registered backends, highest
// priority first.
func AvailableBackends() []string {
	sorted := sortedCtors()
	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = c.name
	}
	return names
}

func sortedCtors() []backendCtor {
	ctorsMu.RLock()
	defer ctorsMu.RUnlock()

	sorted := make([]backendCtor, len(ctors))
	copy(sorted, ctors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority > sorted[j].priority
	})
	return sorted
}
