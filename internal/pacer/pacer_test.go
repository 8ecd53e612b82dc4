package pacer

import (
	"testing"
	"time"

	"axiom.land/axiom/internal/damage"
	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/protocol"
)

func alwaysMapped(uint64) bool { return true }

func TestTickFiresQueuedCallbacksForDamagedVisibleSurface(t *testing.T) {
	p := NewPacer(false)
	p.Enqueue(1, 0, []protocol.FrameCallback{{ObjectID: 42}}, 0, false)

	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)

	out := protocol.NewOutput("A", 1920, 1080, 60000)
	vis := []Visibility{{SurfaceID: 1, Output: out, ScreenRect: geom.NewRect(0, 0, 100, 100)}}

	fired, _ := p.Tick(time.Unix(100, 0), fd, vis, alwaysMapped)
	if len(fired) != 1 || fired[0].ObjectID != 42 || fired[0].OutputName != "A" {
		t.Fatalf("expected callback 42 to fire against output A, got %+v", fired)
	}
	if fd.HasAnyDamage() {
		t.Fatal("expected dirty set to be cleared after tick")
	}
}

func TestTickSkipsUnmappedSurface(t *testing.T) {
	p := NewPacer(false)
	p.Enqueue(1, 0, []protocol.FrameCallback{{ObjectID: 1}}, 0, false)
	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)
	out := protocol.NewOutput("A", 100, 100, 60000)
	vis := []Visibility{{SurfaceID: 1, Output: out, ScreenRect: geom.NewRect(0, 0, 10, 10)}}

	fired, _ := p.Tick(time.Unix(0, 0), fd, vis, func(uint64) bool { return false })
	if len(fired) != 0 {
		t.Fatalf("expected no callbacks fired for unmapped surface, got %+v", fired)
	}
}

func TestTickSkipsSurfaceNotVisibleOnAnyOutput(t *testing.T) {
	p := NewPacer(false)
	p.Enqueue(1, 0, []protocol.FrameCallback{{ObjectID: 1}}, 0, false)
	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)

	fired, _ := p.Tick(time.Unix(0, 0), fd, nil, alwaysMapped)
	if len(fired) != 0 {
		t.Fatalf("expected no callbacks fired with no visibility entries, got %+v", fired)
	}
	// Damage should remain untouched (never cleared) since this surface
	// was skipped entirely, not processed.
	if !fd.HasAnyDamage() {
		t.Fatal("expected damage to remain since the surface was never processed")
	}
}

func TestTickFiresOnlyPrimaryOutputWhenSplitDisabled(t *testing.T) {
	p := NewPacer(false)
	p.Enqueue(1, 0, []protocol.FrameCallback{{ObjectID: 1}, {ObjectID: 2}}, 0, false)
	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)

	small := protocol.NewOutput("small", 100, 100, 60000)
	big := protocol.NewOutput("big", 1920, 1080, 60000)
	vis := []Visibility{
		{SurfaceID: 1, Output: small, ScreenRect: geom.NewRect(0, 0, 10, 10)},
		{SurfaceID: 1, Output: big, ScreenRect: geom.NewRect(0, 0, 1000, 1000)},
	}

	fired, _ := p.Tick(time.Unix(0, 0), fd, vis, alwaysMapped)
	if len(fired) != 2 {
		t.Fatalf("expected both callbacks to fire, got %d", len(fired))
	}
	for _, f := range fired {
		if f.OutputName != "big" {
			t.Fatalf("expected all callbacks to fire against the larger-area output, got %+v", f)
		}
	}
}

func TestTickSplitsCallbacksProportionallyWhenEnabled(t *testing.T) {
	p := NewPacer(true)
	// 4 callbacks, outputs with equal area -> 2 and 2.
	cbs := []protocol.FrameCallback{{ObjectID: 1}, {ObjectID: 2}, {ObjectID: 3}, {ObjectID: 4}}
	p.Enqueue(1, 0, cbs, 0, false)
	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)

	outA := protocol.NewOutput("A", 1920, 1080, 60000)
	outB := protocol.NewOutput("B", 1920, 1080, 60000)
	vis := []Visibility{
		{SurfaceID: 1, Output: outA, ScreenRect: geom.NewRect(0, 0, 100, 100)},
		{SurfaceID: 1, Output: outB, ScreenRect: geom.NewRect(0, 0, 100, 100)},
	}

	fired, _ := p.Tick(time.Unix(0, 0), fd, vis, alwaysMapped)
	if len(fired) != 4 {
		t.Fatalf("expected all 4 callbacks to fire, got %d", len(fired))
	}
	countA, countB := 0, 0
	for _, f := range fired {
		switch f.OutputName {
		case "A":
			countA++
		case "B":
			countB++
		}
	}
	if countA != 2 || countB != 2 {
		t.Fatalf("expected an even 2/2 split across equal-area outputs, got A=%d B=%d", countA, countB)
	}
}

func TestTickResolvesPresentationFeedback(t *testing.T) {
	p := NewPacer(false)
	p.Enqueue(1, 5, []protocol.FrameCallback{{ObjectID: 1}}, 99, true)
	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)
	out := protocol.NewOutput("A", 100, 100, 60000)
	vis := []Visibility{{SurfaceID: 1, Output: out, ScreenRect: geom.NewRect(0, 0, 10, 10)}}

	_, resolved := p.Tick(time.Unix(0, 0), fd, vis, alwaysMapped)
	if len(resolved) != 1 || resolved[0].ObjectID != 99 {
		t.Fatalf("expected feedback object 99 resolved, got %+v", resolved)
	}
}

func TestTickResolvesFeedbackEvenWithNoQueuedCallbacks(t *testing.T) {
	p := NewPacer(false)
	p.Enqueue(1, 3, nil, 77, true) // presentation-feedback without a frame callback
	fd := damage.NewFrameDamage()
	fd.MarkWindowDamaged(1)
	out := protocol.NewOutput("A", 100, 100, 60000)
	vis := []Visibility{{SurfaceID: 1, Output: out, ScreenRect: geom.NewRect(0, 0, 10, 10)}}

	_, resolved := p.Tick(time.Unix(0, 0), fd, vis, alwaysMapped)
	if len(resolved) != 1 || resolved[0].ObjectID != 77 {
		t.Fatalf("expected feedback object 77 resolved even with no callbacks, got %+v", resolved)
	}
}
