package present

import (
	"errors"
	"testing"

	"axiom.land/axiom/internal/damage"
	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/protocol"
)

type fakeGPU struct {
	presentErr   error
	scissors     []OutputScissor
	drawn        []uint64
	presentCalls int
}

func (f *fakeGPU) SetScissors(s []OutputScissor) { f.scissors = s }
func (f *fakeGPU) DrawWindow(windowID uint64, r geom.Rect, z int) {
	f.drawn = append(f.drawn, windowID)
}
func (f *fakeGPU) Present(mode PresentMode) error {
	f.presentCalls++
	return f.presentErr
}

func TestReconcileOutputsAddsAllInitially(t *testing.T) {
	p := NewPresenter(&fakeGPU{}, PresentAuto, false)
	a := protocol.NewOutput("A", 1920, 1080, 60000)
	a.X = 0
	b := protocol.NewOutput("B", 1920, 1080, 60000)
	b.X = 1920

	ops := p.ReconcileOutputs([]*protocol.Output{b, a}) // out of order on purpose
	if len(ops) != 2 {
		t.Fatalf("expected 2 add ops, got %d", len(ops))
	}
	if ops[0].Kind != OpAdd || ops[0].Output.Name != "A" {
		t.Fatalf("expected left-to-right add order starting with A, got %+v", ops[0])
	}
	if ops[1].Output.Name != "B" {
		t.Fatalf("expected second add to be B, got %+v", ops[1])
	}
}

func TestReconcileOutputsRemoveAndAdd(t *testing.T) {
	p := NewPresenter(&fakeGPU{}, PresentAuto, false)
	a := protocol.NewOutput("A", 1920, 1080, 60000)
	p.ReconcileOutputs([]*protocol.Output{a})

	c := protocol.NewOutput("C", 2560, 1440, 144000)
	ops := p.ReconcileOutputs([]*protocol.Output{c})
	if len(ops) != 2 {
		t.Fatalf("expected remove+add, got %d ops", len(ops))
	}
	if ops[0].Kind != OpRemove || ops[0].Output.Name != "A" {
		t.Fatalf("expected remove of A first, got %+v", ops[0])
	}
	if ops[1].Kind != OpAdd || ops[1].Output.Name != "C" {
		t.Fatalf("expected add of C second, got %+v", ops[1])
	}
}

func TestReconcileOutputsModeChangeTriggersRemoveAdd(t *testing.T) {
	p := NewPresenter(&fakeGPU{}, PresentAuto, false)
	a := protocol.NewOutput("A", 1920, 1080, 60000)
	p.ReconcileOutputs([]*protocol.Output{a})

	changed := protocol.NewOutput("A", 2560, 1440, 60000) // same name, new mode
	ops := p.ReconcileOutputs([]*protocol.Output{changed})
	if len(ops) != 2 || ops[0].Kind != OpRemove || ops[1].Kind != OpAdd {
		t.Fatalf("expected a mode change to produce remove-then-add, got %+v", ops)
	}
}

func TestTickSkipsWhenNoDamageAndNoRedrawRequest(t *testing.T) {
	gpu := &fakeGPU{}
	p := NewPresenter(gpu, PresentAuto, false)
	fd := damage.NewFrameDamage()
	rendered, err := p.Tick(fd, nil, false)
	if err != nil || rendered {
		t.Fatalf("expected no render with no damage and no redraw request, got rendered=%v err=%v", rendered, err)
	}
	if gpu.presentCalls != 0 {
		t.Fatal("expected GPU Present not to be called")
	}
}

func TestTickRendersOnDamageAndTransitionsToAwaitingVsync(t *testing.T) {
	gpu := &fakeGPU{}
	p := NewPresenter(gpu, PresentAuto, false)
	out := protocol.NewOutput("A", 1920, 1080, 60000)
	p.ReconcileOutputs([]*protocol.Output{out})

	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)

	windows := []Visible{{WindowID: 1, ScreenRect: geom.NewRect(0, 0, 100, 100), ZIndex: 0}}
	rendered, err := p.Tick(fd, windows, false)
	if err != nil || !rendered {
		t.Fatalf("expected successful render, got rendered=%v err=%v", rendered, err)
	}
	if p.Phase() != PhaseAwaitingVsync {
		t.Fatalf("expected PhaseAwaitingVsync after present, got %v", p.Phase())
	}
	if len(gpu.drawn) != 1 || gpu.drawn[0] != 1 {
		t.Fatalf("expected window 1 drawn, got %+v", gpu.drawn)
	}
}

func TestTickWindowOutsideScissorIsNotDrawn(t *testing.T) {
	gpu := &fakeGPU{}
	p := NewPresenter(gpu, PresentAuto, false)
	out := protocol.NewOutput("A", 1920, 1080, 60000)
	p.ReconcileOutputs([]*protocol.Output{out})

	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)
	windows := []Visible{{WindowID: 1, ScreenRect: geom.NewRect(5000, 5000, 100, 100), ZIndex: 0}}
	rendered, err := p.Tick(fd, windows, false)
	if err != nil || !rendered {
		t.Fatalf("expected frame still presented (clear), got rendered=%v err=%v", rendered, err)
	}
	if len(gpu.drawn) != 0 {
		t.Fatal("expected off-screen window not to be drawn")
	}
}

func TestTickTransientFailureReturnsToIdle(t *testing.T) {
	gpu := &fakeGPU{presentErr: ErrSwapTransient}
	p := NewPresenter(gpu, PresentAuto, false)
	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)
	rendered, err := p.Tick(fd, nil, false)
	if err != nil {
		t.Fatalf("expected transient failure to not propagate as an error, got %v", err)
	}
	if rendered {
		t.Fatal("expected transient failure to report no render")
	}
	if p.Phase() != PhaseIdle {
		t.Fatalf("expected PhaseIdle after transient failure, got %v", p.Phase())
	}
}

func TestTickContextLostPropagatesError(t *testing.T) {
	gpu := &fakeGPU{presentErr: ErrContextLost}
	p := NewPresenter(gpu, PresentAuto, false)
	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)
	_, err := p.Tick(fd, nil, false)
	if !errors.Is(err, ErrContextLost) {
		t.Fatalf("expected ErrContextLost to propagate, got %v", err)
	}
	if p.Phase() != PhaseIdle {
		t.Fatalf("expected PhaseIdle after context loss, got %v", p.Phase())
	}
}

func TestCompleteVsyncReturnsEventsPerOutputAndResetsPhase(t *testing.T) {
	gpu := &fakeGPU{}
	p := NewPresenter(gpu, PresentAuto, false)
	out := protocol.NewOutput("A", 1920, 1080, 60000)
	p.ReconcileOutputs([]*protocol.Output{out})

	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)
	p.Tick(fd, nil, false)
	if p.Phase() != PhaseAwaitingVsync {
		t.Fatal("setup: expected AwaitingVsync before CompleteVsync")
	}

	events := p.CompleteVsync(12345)
	if len(events) != 1 || events[0].OutputName != "A" {
		t.Fatalf("expected 1 presented event for output A, got %+v", events)
	}
	if p.Phase() != PhaseIdle {
		t.Fatalf("expected PhaseIdle after CompleteVsync, got %v", p.Phase())
	}
}

func TestParsePresentMode(t *testing.T) {
	cases := map[string]PresentMode{"": PresentAuto, "auto": PresentAuto, "fifo": PresentFifo, "mailbox": PresentMailbox, "immediate": PresentImmediate}
	for in, want := range cases {
		got, ok := ParsePresentMode(in)
		if !ok || got != want {
			t.Fatalf("ParsePresentMode(%q) = %v, %v; want %v, true", in, got, ok, want)
		}
	}
	if _, ok := ParsePresentMode("bogus"); ok {
		t.Fatal("expected unknown present mode to report ok=false")
	}
}
