package main

import (
	"log/slog"
	"testing"

	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/present"
)

func TestLoggingGPURecordsScissorsAndPresents(t *testing.T) {
	g := newLoggingGPU(slog.Default())
	scissors := []present.OutputScissor{{Rect: geom.NewRect(0, 0, 1920, 1080)}}
	g.SetScissors(scissors)
	if len(g.lastScissors) != 1 {
		t.Fatalf("expected scissors recorded, got %d", len(g.lastScissors))
	}
	g.DrawWindow(1, geom.NewRect(0, 0, 100, 100), 0)
	if err := g.Present(present.PresentFifo); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if g.frames != 1 {
		t.Fatalf("expected frame count 1, got %d", g.frames)
	}
}
