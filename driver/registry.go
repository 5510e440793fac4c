// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import (
	"sync"
)

// Well-known driver names.
const (
	// NameWebGL2 is the browser WebGL2 driver.
	NameWebGL2 = "webgl2"
	// NameWebGL is the browser WebGL1 driver.
	NameWebGL = "webgl"
)

// Factory creates a new driver context. Factories may fail, e.g. when the
// host environment cannot provide the underlying API.
type Factory func() (Context, error)

// registry holds registered drivers.
var (
	registryMu sync.RWMutex
	drivers    = make(map[string]Factory)
	// Priority order for driver selection (first available wins).
	driverPriority = []string{NameWebGL2, NameWebGL}
)

// Register registers a driver factory with the given name.
// This is typically called from init() functions in driver packages.
// If a driver with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	drivers[name] = factory
}

// Unregister removes a driver from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(drivers, name)
}

// Available returns the registered driver names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}

// IsRegistered reports whether a driver with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := drivers[name]
	return ok
}

// Get creates a driver context by name.
// Returns ErrNotAvailable if no such driver is registered.
func Get(name string) (Context, error) {
	registryMu.RLock()
	factory, ok := drivers[name]
	registryMu.RUnlock()
	if !ok {
		return nil, ErrNotAvailable
	}
	return factory()
}

// Default creates the best available driver based on priority order,
// falling back to any registered driver when none of the prioritized names
// are present. Returns ErrNotAvailable when the registry is empty or every
// factory fails.
func Default() (Context, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range driverPriority {
		if factory, ok := drivers[name]; ok {
			if ctx, err := factory(); err == nil {
				return ctx, nil
			}
		}
	}
	for _, factory := range drivers {
		if ctx, err := factory(); err == nil {
			return ctx, nil
		}
	}
	return nil, ErrNotAvailable
}
