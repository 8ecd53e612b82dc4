package main

import (
	"testing"

	"axiom.land/axiom/internal/control"
)

func TestOutputRegistryAddAndSnapshot(t *testing.T) {
	r := newOutputRegistry()
	if err := r.AddOutput(control.OutputSpec{Width: 1920, Height: 1080, Scale: 1}); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	if err := r.AddOutput(control.OutputSpec{Width: 1280, Height: 720, Scale: 2, X: 1920}); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(snap))
	}
	if snap[0].Width != 1920 || snap[0].Height != 1080 {
		t.Fatalf("unexpected first output: %+v", snap[0])
	}
	if snap[1].Scale != 2 || snap[1].X != 1920 {
		t.Fatalf("unexpected second output: %+v", snap[1])
	}
}

func TestOutputRegistryRemove(t *testing.T) {
	r := newOutputRegistry()
	_ = r.AddOutput(control.OutputSpec{Width: 800, Height: 600, Scale: 1})
	_ = r.AddOutput(control.OutputSpec{Width: 1024, Height: 768, Scale: 1})
	if err := r.RemoveOutput(0); err != nil {
		t.Fatalf("RemoveOutput: %v", err)
	}
	snap := r.Snapshot()
	if len(snap) != 1 || snap[0].Width != 1024 {
		t.Fatalf("unexpected snapshot after remove: %+v", snap)
	}
}

func TestOutputRegistryRemoveOutOfRange(t *testing.T) {
	r := newOutputRegistry()
	_ = r.AddOutput(control.OutputSpec{Width: 800, Height: 600, Scale: 1})
	if err := r.RemoveOutput(5); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestSeedFromFlagParsesMultipleOutputs(t *testing.T) {
	r := newOutputRegistry()
	if err := r.seedFromFlag("1920x1080@1+0,0;1280x720@2+1920,0"); err != nil {
		t.Fatalf("seedFromFlag: %v", err)
	}
	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(snap))
	}
	if snap[1].Scale != 2 {
		t.Fatalf("expected second output scale 2, got %d", snap[1].Scale)
	}
}

func TestSeedFromFlagEmptyIsNoop(t *testing.T) {
	r := newOutputRegistry()
	if err := r.seedFromFlag(""); err != nil {
		t.Fatalf("seedFromFlag empty: %v", err)
	}
	if len(r.Snapshot()) != 0 {
		t.Fatalf("expected no outputs")
	}
}
