package geom

import "testing"

func TestIntersectsAndIntersection(t *testing.T) {
	a := NewRect(10, 10, 50, 50)
	b := NewRect(40, 40, 50, 50)
	if !a.Intersects(b) {
		t.Fatal("expected intersection")
	}
	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("intersection reported false")
	}
	want := NewRect(40, 40, 20, 20)
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	c := NewRect(1000, 1000, 5, 5)
	if a.Intersects(c) {
		t.Fatal("did not expect intersection")
	}
	if _, ok := a.Intersection(c); ok {
		t.Fatal("expected Intersection to report false for disjoint rects")
	}
}

func TestUnionCommutativeAndIdempotent(t *testing.T) {
	a := NewRect(10, 10, 50, 50)
	b := NewRect(40, 40, 50, 50)
	if a.Union(b) != b.Union(a) {
		t.Fatal("union not commutative")
	}
	if a.Union(a) != a {
		t.Fatal("union not idempotent")
	}
}

func TestTranslateInvariant(t *testing.T) {
	a := NewRect(1, 2, 3, 4)
	b := a.Translate(5, 6)
	want := NewRect(6, 8, 3, 4)
	if b != want {
		t.Fatalf("got %+v want %+v", b, want)
	}
}

func TestContainsPoint(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	if !r.ContainsPoint(5, 5) {
		t.Fatal("expected point inside")
	}
	if r.ContainsPoint(10, 10) {
		t.Fatal("max edge is exclusive")
	}
}

func TestDamageCoalescingExample(t *testing.T) {
	a := NewRect(10, 10, 50, 50)
	b := NewRect(40, 40, 50, 50)
	got := a.Union(b)
	want := NewRect(10, 10, 80, 80)
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}
