//go:build !athena

// services/hal/default_sim.go
package hal

import (
	"frchal-go/services/hal/native"
	"frchal-go/services/hal/native/sim"
)

// Off-robot builds boot the simulation.
func defaultLib() native.Lib { return sim.New(sim.Options{}) }
