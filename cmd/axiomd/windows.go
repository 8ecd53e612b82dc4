package main

import (
	"sync"

	"axiom.land/axiom/internal/damage"
	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/pacer"
	"axiom.land/axiom/internal/protocol"
	"axiom.land/axiom/internal/texture"
	"axiom.land/axiom/internal/winstate"
	"axiom.land/axiom/internal/workspace"
)

// windowTracker is the glue spec.md §1 calls the hard engineering: each
// of the workspace engine (C4), decoration state (C5), damage tracker
// (C1) and frame pacer (C8) is independently correct and unit-tested,
// but none of them ever hears about a real client's surfaces without
// something translating protocol.Session lifecycle events into calls
// against them. windowTracker is that something, registered as a
// Session's OnSurfaceCommit/OnSurfaceDestroy hooks from wayland.go.
type windowTracker struct {
	strip       *workspace.Strip
	decorations *winstate.Manager
	textures    *texture.Cache
	frameDamage *damage.FrameDamage
	pacer       *pacer.Pacer

	mu       sync.Mutex
	sessions map[uint64]*protocol.Session // surfaceID -> owning session, for routing fired callbacks back out
}

func newWindowTracker(strip *workspace.Strip, decorations *winstate.Manager, textures *texture.Cache, frameDamage *damage.FrameDamage, p *pacer.Pacer) *windowTracker {
	return &windowTracker{
		strip:       strip,
		decorations: decorations,
		textures:    textures,
		frameDamage: frameDamage,
		pacer:       p,
		sessions:    make(map[uint64]*protocol.Session),
	}
}

// bind installs this tracker's hooks on sess, so every surface it
// creates, commits and destroys flows through onCommit/onDestroy below.
func (t *windowTracker) bind(sess *protocol.Session) {
	sess.OnSurfaceCommit = func(surf *protocol.Surface) {
		t.onCommit(sess, surf)
	}
	sess.OnSurfaceDestroy = func(surfaceID uint64) {
		t.onDestroy(surfaceID)
	}
}

// onCommit reacts to a successful wl_surface.commit. Only mapped
// toplevels are placed on the workspace strip (C4 tiles toplevels;
// popups and layer surfaces are positioned relative to their parent or
// an output edge, outside the strip's column model). The first commit
// that maps a toplevel both places it in a column and registers its
// decoration state; every subsequent commit just feeds the frame's
// accumulated damage and frame callbacks.
func (t *windowTracker) onCommit(sess *protocol.Session, surf *protocol.Surface) {
	if surf.Role != protocol.RoleToplevel {
		return
	}
	if !surf.Mapped() {
		// A toplevel that commits a null buffer unmaps without a
		// wl_surface.destroy; release its workspace/decoration/damage/
		// texture state the same way destroy would.
		if t.strip.WindowExists(surf.ID) {
			t.onDestroy(surf.ID)
		}
		return
	}

	t.mu.Lock()
	t.sessions[surf.ID] = sess
	t.mu.Unlock()

	if !t.strip.WindowExists(surf.ID) {
		title, _ := sess.Title(surf)
		t.strip.AddWindow(surf.ID)
		t.decorations.AddWindow(surf.ID, title, true)
	}

	var content geom.Rect
	if surf.Buffer != nil {
		content = geom.NewRect(0, 0, surf.Buffer.Width, surf.Buffer.Height)
	}
	for _, r := range surf.TakeDamage() {
		// Clip surface-local damage to the buffer's extent; a region wholly
		// outside it leaves nothing to redraw.
		if clipped, ok := r.Intersection(content); ok {
			t.frameDamage.AddWindowDamage(surf.ID, clipped)
		}
	}
	if surf.Buffer != nil {
		// No attached buffer's pixels are readable without an mmap'd
		// wl_shm pool behind BufferRef (see DESIGN.md's texture-upload
		// entry); a new buffer still counts as full-window damage so the
		// presenter and pacer treat the frame as dirty.
		t.frameDamage.MarkWindowDamaged(surf.ID)
	}

	if cbs := surf.TakeCallbacks(); len(cbs) > 0 {
		t.pacer.Enqueue(surf.ID, t.frameDamage.FrameNumber(), cbs, 0, false)
	}
}

// onDestroy tears down every piece of domain state keyed on surfaceID,
// whether the client destroyed the surface explicitly or Session.Close
// released it on disconnect.
func (t *windowTracker) onDestroy(surfaceID uint64) {
	t.mu.Lock()
	delete(t.sessions, surfaceID)
	t.mu.Unlock()

	t.strip.RemoveWindow(surfaceID)
	t.decorations.RemoveWindow(surfaceID)
	t.textures.Remove(surfaceID)
	t.frameDamage.ClearWindow(surfaceID)
}

// deliver routes the pacer's fired callbacks back out through each
// surface's owning session. A surface whose session has since
// disconnected (and so isn't registered any more) is silently dropped;
// Session.Close already released it from State before onDestroy could
// race this call.
func (t *windowTracker) deliver(fired []pacer.Fired) {
	if len(fired) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, f := range fired {
		if sess, ok := t.sessions[f.SurfaceID]; ok {
			sess.FireCallback(f.ObjectID, f.TimestampMillis)
		}
	}
}

// visibility builds the pacer's per-(surface,output) overlap list for
// this tick's layout pass. Axiom's outputs are laid out side by side
// with no overlap, so each window rect intersects at most a handful of
// outputs; a window that straddles none (fully off the configured
// topology) gets no Visibility entry and so never fires its callbacks,
// matching spec.md C8's "dirty and visible" firing precondition.
func visibility(layouts map[uint64]geom.Rect, outputs []*protocol.Output) []pacer.Visibility {
	var out []pacer.Visibility
	for windowID, rect := range layouts {
		for _, o := range outputs {
			outRect := geom.NewRect(o.X, o.Y, o.Width, o.Height)
			if inter, ok := rect.Intersection(outRect); ok {
				out = append(out, pacer.Visibility{SurfaceID: windowID, Output: o, ScreenRect: inter})
			}
		}
	}
	return out
}
