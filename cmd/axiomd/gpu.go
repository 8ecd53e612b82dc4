package main

import (
	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/present"
)

// loggingGPU is the stand-in GPUSurface backend. The concrete GPU shader
// set is out of scope (spec.md §1); Axiom only depends on the
// present.GPUSurface interface, and a real Vulkan/GL backend is wired in
// at this exact seam. loggingGPU satisfies the interface by recording
// what it was asked to draw, so the render loop, pacer, and damage
// tracker all run end-to-end without a real compositor display attached.
type loggingGPU struct {
	log interface {
		Debug(msg string, args ...any)
	}
	lastScissors []present.OutputScissor
	frames       uint64
}

func newLoggingGPU(log interface{ Debug(msg string, args ...any) }) *loggingGPU {
	return &loggingGPU{log: log}
}

func (g *loggingGPU) SetScissors(scissors []present.OutputScissor) {
	g.lastScissors = scissors
}

func (g *loggingGPU) DrawWindow(windowID uint64, screenRect geom.Rect, zIndex int) {
	g.log.Debug("draw window", "window", windowID, "rect", screenRect, "z", zIndex)
}

func (g *loggingGPU) Present(mode present.PresentMode) error {
	g.frames++
	return nil
}
