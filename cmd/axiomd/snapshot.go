package main

import (
	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/recovery"
	"axiom.land/axiom/internal/winstate"
	"axiom.land/axiom/internal/workspace"
)

// buildSnapshot walks the live workspace strip and decoration manager to
// populate a recovery.StateSnapshot, per spec.md §4.9: a snapshot only
// has restore value if it actually captures the window/column tree, not
// just an id and timestamp. layouts is the same screen-rect map this
// tick's CalculateLayouts() produced; windows in columns currently
// scrolled out of view have no entry in it and fall back to a zeroed
// rect (their column/order is still recorded, which is what restore
// needs most).
func buildSnapshot(id string, timestampUnix int64, strip *workspace.Strip, decorations *winstate.Manager, layouts map[uint64]geom.Rect) recovery.StateSnapshot {
	snap := recovery.NewStateSnapshot(id, timestampUnix, version)
	snap.ActiveWorkspace = strip.FocusedColumnIndex()

	for _, col := range strip.AllColumns() {
		snap.Columns = append(snap.Columns, recovery.ColumnSnapshot{
			ID:      col.Index,
			Windows: append([]uint64(nil), col.Windows...),
			Active:  col.HasFocus(),
		})

		for _, windowID := range col.Windows {
			ws := recovery.WindowSnapshot{ID: windowID, Workspace: col.Index}
			if rect, ok := layouts[windowID]; ok {
				ws.X, ws.Y, ws.Width, ws.Height = rect.X, rect.Y, rect.Width, rect.Height
			}
			if win, ok := decorations.Window(windowID); ok {
				ws.Title = win.Decoration.Title
				ws.Focused = win.Decoration.Focused
			}
			snap.Windows = append(snap.Windows, ws)
			if ws.Focused {
				active := windowID
				snap.ActiveWindow = &active
			}
		}
	}
	return snap
}
