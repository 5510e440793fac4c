// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command thinengine-caps probes the host GPU and prints a capability
// report.
//
// The WebGL driver only exists in the browser, so on native hosts the tool
// probes through wgpu instead: it requests an adapter, prints its identity
// and limits, and verifies a device can be created. This is the diagnostic
// companion to the engine's in-browser capability probe.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

func main() {
	verbose := flag.Bool("v", false, "print device limits")
	flag.Parse()

	if err := run(*verbose); err != nil {
		log.Fatalf("thinengine-caps: %v", err)
	}
}

func run(verbose bool) error {
	instance := core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})

	adapter, err := instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("no adapter: %w", err)
	}
	defer func() {
		if err := core.AdapterDrop(adapter); err != nil {
			log.Printf("adapter release: %v", err)
		}
	}()

	info, err := core.GetAdapterInfo(adapter)
	if err != nil {
		return fmt.Errorf("adapter info: %w", err)
	}

	w := os.Stdout
	fmt.Fprintf(w, "adapter:  %s\n", info.Name)
	fmt.Fprintf(w, "vendor:   %s\n", info.Vendor)
	fmt.Fprintf(w, "type:     %s\n", info.DeviceType)
	fmt.Fprintf(w, "backend:  %s\n", info.Backend)
	if info.Driver != "" {
		fmt.Fprintf(w, "driver:   %s\n", info.Driver)
	}

	device, err := core.RequestDevice(adapter, &types.DeviceDescriptor{
		Label:          "thinengine-caps",
		RequiredLimits: types.DefaultLimits(),
	})
	if err != nil {
		return fmt.Errorf("device creation: %w", err)
	}
	defer func() {
		if err := core.DeviceDrop(device); err != nil {
			log.Printf("device release: %v", err)
		}
	}()

	if _, err := core.GetDeviceQueue(device); err != nil {
		return fmt.Errorf("queue retrieval: %w", err)
	}
	fmt.Fprintln(w, "device:   ok")

	if verbose {
		limits, err := core.GetDeviceLimits(device)
		if err != nil {
			return fmt.Errorf("device limits: %w", err)
		}
		fmt.Fprintf(w, "max texture 2D:  %d\n", limits.MaxTextureDimension2D)
		fmt.Fprintf(w, "max buffer size: %d\n", limits.MaxBufferSize)
	}
	return nil
}
