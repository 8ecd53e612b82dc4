package protocol

// State is the compositor's full protocol-level object table: every live
// surface, the parent->children subsurface index needed for sync-mode
// commit deferral, and serial allocation for xdg_surface configures.
type State struct {
	surfaces map[uint64]*Surface
	children map[uint64][]*Surface // parent surface id -> subsurface children
	serial   uint32
}

// NewState creates an empty protocol state table.
func NewState() *State {
	return &State{
		surfaces: make(map[uint64]*Surface),
		children: make(map[uint64][]*Surface),
	}
}

// NextSerial allocates the next xdg_surface configure serial.
func (s *State) NextSerial() uint32 {
	s.serial++
	return s.serial
}

// CreateSurface registers a new bare wl_surface with no role yet.
func (s *State) CreateSurface(id uint64) *Surface {
	surf := NewSurface(id)
	s.surfaces[id] = surf
	return surf
}

// Surface looks up a tracked surface by id.
func (s *State) Surface(id uint64) (*Surface, bool) {
	surf, ok := s.surfaces[id]
	return surf, ok
}

// DestroySurface removes a surface and detaches it from any parent's
// child index.
func (s *State) DestroySurface(id uint64) {
	surf, ok := s.surfaces[id]
	if !ok {
		return
	}
	if sub, ok := surf.RoleData.(*Subsurface); ok && sub.Parent != nil {
		s.removeChild(sub.Parent.ID, surf)
	}
	delete(s.surfaces, id)
	delete(s.children, id)
}

// AssignToplevel promotes surf to xdg_toplevel, failing with a
// ProtocolError if it already has a role (spec.md C6 role-assignment
// rule).
func (s *State) AssignToplevel(surf *Surface) (*Toplevel, error) {
	if surf.Role != RoleNone {
		return nil, roleConflict(surf)
	}
	tl := NewToplevel()
	surf.Role = RoleToplevel
	surf.RoleData = tl
	return tl, nil
}

// AssignPopup promotes surf to xdg_popup with the given parent.
func (s *State) AssignPopup(surf, parent *Surface) (*Popup, error) {
	if surf.Role != RoleNone {
		return nil, roleConflict(surf)
	}
	p := NewPopup(parent)
	surf.Role = RolePopup
	surf.RoleData = p
	return p, nil
}

// AssignLayerSurface promotes surf to zwlr_layer_surface_v1.
func (s *State) AssignLayerSurface(surf *Surface, namespace string, layer LayerKind) (*LayerSurface, error) {
	if surf.Role != RoleNone {
		return nil, roleConflict(surf)
	}
	ls := NewLayerSurface(namespace, layer)
	surf.Role = RoleLayerSurface
	surf.RoleData = ls
	return ls, nil
}

// AssignSubsurface promotes surf to wl_subsurface, parented to parent, and
// registers it in the parent's child index for commit-deferral.
func (s *State) AssignSubsurface(surf, parent *Surface) (*Subsurface, error) {
	if surf.Role != RoleNone {
		return nil, roleConflict(surf)
	}
	sub := NewSubsurface(parent)
	surf.Role = RoleSubsurface
	surf.RoleData = sub
	s.children[parent.ID] = append(s.children[parent.ID], surf)
	return sub, nil
}

func (s *State) removeChild(parentID uint64, child *Surface) {
	kids := s.children[parentID]
	for i, k := range kids {
		if k == child {
			s.children[parentID] = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

func roleConflict(surf *Surface) error {
	return &ProtocolError{
		ObjectID: uint32(surf.ID),
		Message:  "surface already has a role: " + surf.Role.String(),
	}
}

// CommitSurface applies wl_surface.commit for surf, honoring subsurface
// sync-mode deferral (spec.md C6: "subsurface commits are deferred until
// the parent commits, unless desync"). When a synchronized parent
// commits, all of its synchronized children's cached pending state is
// applied immediately afterward, in child-registration order.
func (s *State) CommitSurface(surf *Surface) error {
	if sub, ok := surf.RoleData.(*Subsurface); ok && sub.Synced {
		cached := surf.pending
		sub.cachedPending = &cached
		surf.pending = pendingState{}
		return nil
	}

	if err := surf.Commit(); err != nil {
		return err
	}

	for _, child := range s.children[surf.ID] {
		sub, ok := child.RoleData.(*Subsurface)
		if !ok || !sub.Synced || sub.cachedPending == nil {
			continue
		}
		child.pending = *sub.cachedPending
		sub.cachedPending = nil
		if err := child.Commit(); err != nil {
			return err
		}
	}
	return nil
}
