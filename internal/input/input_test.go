package input

import (
	"testing"
	"time"

	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/protocol"
)

func TestParseBindingSimple(t *testing.T) {
	b, ok := ParseBinding("Super+Shift+Left")
	if !ok {
		t.Fatal("expected valid binding to parse")
	}
	if !b.Mods.Has(ModSuper) || !b.Mods.Has(ModShift) || b.Mods.Has(ModCtrl) {
		t.Fatalf("unexpected modifiers: %b", b.Mods)
	}
	if b.Key != "Left" {
		t.Fatalf("expected key Left, got %q", b.Key)
	}
}

func TestParseBindingNoModifiers(t *testing.T) {
	b, ok := ParseBinding("Q")
	if !ok || b.Mods != 0 || b.Key != "Q" {
		t.Fatalf("expected bare key Q with no modifiers, got %+v ok=%v", b, ok)
	}
}

func TestParseBindingUnknownModifierFails(t *testing.T) {
	if _, ok := ParseBinding("Bogus+Left"); ok {
		t.Fatal("expected unknown modifier to fail parsing")
	}
}

func TestBindingSetResolve(t *testing.T) {
	s := NewBindingSet()
	if !s.Bind("Super+Q", ActionCloseWindow) {
		t.Fatal("expected bind to succeed")
	}
	a, ok := s.Resolve(ModSuper, "Q")
	if !ok || a != ActionCloseWindow {
		t.Fatalf("expected ActionCloseWindow, got %v ok=%v", a, ok)
	}
	if _, ok := s.Resolve(ModShift, "Q"); ok {
		t.Fatal("expected no match with different modifiers")
	}
}

func TestDefaultBindingsResolveKnownActions(t *testing.T) {
	s := DefaultBindings()
	cases := []struct {
		mods Modifier
		key  Key
		want Action
	}{
		{ModSuper, "Left", ActionScrollWorkspaceLeft},
		{ModSuper, "Right", ActionScrollWorkspaceRight},
		{ModSuper | ModShift, "Left", ActionMoveWindowLeft},
		{ModSuper, "Q", ActionCloseWindow},
	}
	for _, c := range cases {
		got, ok := s.Resolve(c.mods, c.key)
		if !ok || got != c.want {
			t.Fatalf("Resolve(%v, %q) = %v, %v; want %v", c.mods, c.key, got, ok, c.want)
		}
	}
}

func TestQuantizeDirection8Way(t *testing.T) {
	cases := []struct {
		dx, dy float64
		want   Direction
	}{
		{10, 0, DirE},
		{0, -10, DirN},
		{-10, 0, DirW},
		{0, 10, DirS},
		{10, -10, DirNE},
		{-10, -10, DirNW},
		{-10, 10, DirSW},
		{10, 10, DirSE},
	}
	for _, c := range cases {
		got := QuantizeDirection(c.dx, c.dy)
		if got != c.want {
			t.Fatalf("QuantizeDirection(%v, %v) = %v, want %v", c.dx, c.dy, got, c.want)
		}
	}
}

func TestHitTestPicksFirstMatchingInZOrder(t *testing.T) {
	targets := []HitTarget{
		{WindowID: 1, Rect: geom.NewRect(0, 0, 100, 100)},
		{WindowID: 2, Rect: geom.NewRect(50, 50, 100, 100)},
	}
	res, ok := HitTest(targets, 60, 60)
	if !ok || res.WindowID != 1 {
		t.Fatalf("expected topmost (first) window 1 to win overlap, got %+v", res)
	}
}

func TestHitTestMissReturnsFalse(t *testing.T) {
	targets := []HitTarget{{WindowID: 1, Rect: geom.NewRect(0, 0, 10, 10)}}
	if _, ok := HitTest(targets, 100, 100); ok {
		t.Fatal("expected no hit outside all rects")
	}
}

func TestHitTestDecorationInterceptsContent(t *testing.T) {
	targets := []HitTarget{{
		WindowID:       1,
		Rect:           geom.NewRect(0, 0, 200, 200),
		DecorationRect: geom.NewRect(0, 0, 200, 32),
	}}
	res, ok := HitTest(targets, 10, 10)
	if !ok || !res.Decoration {
		t.Fatalf("expected decoration hit, got %+v ok=%v", res, ok)
	}
	res, ok = HitTest(targets, 10, 100)
	if !ok || res.Decoration {
		t.Fatalf("expected content hit below titlebar, got %+v ok=%v", res, ok)
	}
}

func TestGestureTapOnQuickRelease(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	start := time.Unix(0, 0)
	r.Press(1, 10, 10, start, 0)
	evs := r.Release(1, start.Add(50*time.Millisecond))
	if len(evs) != 1 || evs[0].Kind != GestureTap {
		t.Fatalf("expected a tap, got %+v", evs)
	}
}

func TestGestureLongPressOnSlowRelease(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	start := time.Unix(0, 0)
	r.Press(1, 10, 10, start, 0)
	evs := r.Release(1, start.Add(600*time.Millisecond))
	if len(evs) != 1 || evs[0].Kind != GestureLongPress {
		t.Fatalf("expected a long-press, got %+v", evs)
	}
}

func TestGestureSwipeOnFastDisplacement(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	start := time.Unix(0, 0)
	r.Press(1, 0, 0, start, 0)
	r.Move(1, 100, 0, start.Add(10*time.Millisecond))
	evs := r.Release(1, start.Add(20*time.Millisecond))
	if len(evs) != 1 || evs[0].Kind != GestureSwipe || evs[0].Direction != DirE {
		t.Fatalf("expected eastward swipe, got %+v", evs)
	}
}

func TestGestureDragStartsPastThresholdWithModifier(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRecognizer(cfg)
	start := time.Unix(0, 0)
	r.Press(1, 0, 0, start, ModSuper)
	evs := r.Move(1, 20, 0, start.Add(10*time.Millisecond)) // past DragThreshold=12
	if len(evs) != 1 || evs[0].Kind != GestureDragStart || evs[0].Drag != DragMoveWindow {
		t.Fatalf("expected drag-start move-window, got %+v", evs)
	}
	evs = r.Move(1, 30, 0, start.Add(20*time.Millisecond))
	if len(evs) != 1 || evs[0].Kind != GestureDragMove {
		t.Fatalf("expected drag-move, got %+v", evs)
	}
	evs = r.Release(1, start.Add(30*time.Millisecond))
	if len(evs) != 1 || evs[0].Kind != GestureDragEnd {
		t.Fatalf("expected drag-end, got %+v", evs)
	}
}

func TestGestureDragWithResizeModifier(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRecognizer(cfg)
	start := time.Unix(0, 0)
	r.Press(1, 0, 0, start, ModAlt)
	evs := r.Move(1, 0, 20, start.Add(10*time.Millisecond))
	if len(evs) != 1 || evs[0].Drag != DragResizeWindow {
		t.Fatalf("expected resize drag, got %+v", evs)
	}
}

func TestGestureWithoutModifierDoesNotDrag(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	start := time.Unix(0, 0)
	r.Press(1, 0, 0, start, 0)
	evs := r.Move(1, 20, 0, start.Add(10*time.Millisecond))
	if len(evs) != 0 {
		t.Fatalf("expected no drag event without a qualifying modifier, got %+v", evs)
	}
}

func TestGestureTwoFingerPinchMapsToScroll(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	start := time.Unix(0, 0)
	r.Press(1, 0, 0, start, 0)
	r.Press(2, 0, 50, start, 0)
	evs := r.Move(1, 10, 0, start.Add(10*time.Millisecond))
	if len(evs) != 1 || evs[0].Kind != GesturePinchScroll {
		t.Fatalf("expected pinch-scroll with two active slots, got %+v", evs)
	}
	if evs[0].Dx != 10 {
		t.Fatalf("expected dx=10 at gain 1.0, got %v", evs[0].Dx)
	}
}

func TestGestureThreeFingerSwipeSwitchesColumn(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	start := time.Unix(0, 0)
	r.Press(1, 0, 0, start, 0)
	r.Press(2, 0, 50, start, 0)
	r.Press(3, 0, 100, start, 0)
	evs := r.Move(1, 60, 0, start.Add(10*time.Millisecond)) // past SwipeMinDistance=50
	if len(evs) != 1 || evs[0].Kind != GestureThreeFingerSwipe || evs[0].Direction != DirE {
		t.Fatalf("expected three-finger eastward swipe, got %+v", evs)
	}
}

func TestDispatcherKeyBindingResolvesOnPressNotRelease(t *testing.T) {
	seat := protocol.NewSeat("seat0")
	d := NewDispatcher(seat, DefaultBindings(), DefaultConfig())
	d.SetModifiers(ModSuper)
	if a, ok := d.HandleKey("Left", true); !ok || a != ActionScrollWorkspaceLeft {
		t.Fatalf("expected ActionScrollWorkspaceLeft on press, got %v %v", a, ok)
	}
	if _, ok := d.HandleKey("Left", false); ok {
		t.Fatal("expected release to never resolve an action")
	}
}

func TestDispatcherCancelFocusClearsGestureAndSendsLeave(t *testing.T) {
	seat := protocol.NewSeat("seat0")
	d := NewDispatcher(seat, DefaultBindings(), DefaultConfig())
	surf := &protocol.Surface{ID: 1}
	d.Resolve = func(id uint64) *protocol.Surface { return surf }
	d.Move([]HitTarget{{WindowID: 1, Rect: geom.NewRect(0, 0, 100, 100)}}, 10, 10, time.Unix(0, 0))
	if seat.Pointer.Focused != surf {
		t.Fatal("expected pointer focus to be set to the hit surface")
	}
	prev := d.CancelFocus()
	if prev != surf {
		t.Fatalf("expected CancelFocus to report the previously focused surface, got %v", prev)
	}
	if seat.Pointer.Focused != nil {
		t.Fatal("expected pointer focus cleared after CancelFocus")
	}
	if !seat.Pointer.NeedsFrame() {
		t.Fatal("expected a frame to be owed after CancelFocus's leave")
	}
}
