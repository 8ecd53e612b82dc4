package protocol

// ToplevelState is one of the states an xdg_toplevel can report via
// configure (maximized/fullscreen/resizing/activated).
type ToplevelState int

const (
	StateMaximized ToplevelState = iota
	StateFullscreen
	StateResizing
	StateActivated
)

// Toplevel is an xdg_toplevel's role-specific state.
type Toplevel struct {
	Title    string
	AppID    string
	MinWidth, MinHeight int
	MaxWidth, MaxHeight int
	States   map[ToplevelState]bool

	lastSentSerial uint32
	lastAckedSerial uint32
	ackedHistory   map[uint32]bool
}

// NewToplevel creates role data for a freshly-assigned xdg_toplevel.
func NewToplevel() *Toplevel {
	return &Toplevel{States: make(map[ToplevelState]bool), ackedHistory: make(map[uint32]bool)}
}

// Configure records a newly-sent configure serial (the caller already put
// width/height/states on the wire) and returns it for convenience.
func (t *Toplevel) Configure(serial uint32) uint32 {
	t.lastSentSerial = serial
	return serial
}

// AckConfigure validates and records a client's ack_configure(serial),
// per spec.md's "valid if serial == last_sent or within acked history"
// rule. Returns false (without mutating state) for unknown serials, which
// the caller should surface as a ProtocolError.
func (t *Toplevel) AckConfigure(serial uint32) bool {
	if serial != t.lastSentSerial && !t.ackedHistory[serial] {
		return false
	}
	t.lastAckedSerial = serial
	t.ackedHistory[serial] = true
	return true
}

// LastSentSerial and LastAckedSerial expose the configure/ack bookkeeping.
func (t *Toplevel) LastSentSerial() uint32  { return t.lastSentSerial }
func (t *Toplevel) LastAckedSerial() uint32 { return t.lastAckedSerial }

// Popup is an xdg_popup's role-specific state: its parent surface and
// positioner-derived geometry.
type Popup struct {
	Parent *Surface
	X, Y, Width, Height int

	lastSentSerial  uint32
	lastAckedSerial uint32
	ackedHistory    map[uint32]bool
}

// NewPopup creates role data for a freshly-assigned xdg_popup.
func NewPopup(parent *Surface) *Popup {
	return &Popup{Parent: parent, ackedHistory: make(map[uint32]bool)}
}

// Configure records a newly-sent configure serial.
func (p *Popup) Configure(serial uint32) uint32 {
	p.lastSentSerial = serial
	return serial
}

// AckConfigure validates and records an ack_configure, mirroring
// Toplevel.AckConfigure's history-tolerant rule.
func (p *Popup) AckConfigure(serial uint32) bool {
	if serial != p.lastSentSerial && !p.ackedHistory[serial] {
		return false
	}
	p.lastAckedSerial = serial
	p.ackedHistory[serial] = true
	return true
}

// LayerAnchor is a bitmask of zwlr_layer_surface_v1 anchor edges.
type LayerAnchor int

const (
	AnchorTop LayerAnchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

// LayerKind orders layer-shell surfaces relative to normal windows.
type LayerKind int

const (
	LayerBackground LayerKind = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// LayerSurface is a zwlr_layer_surface_v1's role-specific state.
type LayerSurface struct {
	Namespace     string
	Layer         LayerKind
	Anchor        LayerAnchor
	ExclusiveZone int
	MarginTop, MarginRight, MarginBottom, MarginLeft int
	DesiredWidth, DesiredHeight int

	lastSentSerial uint32
}

// NewLayerSurface creates role data for a freshly-assigned layer surface.
func NewLayerSurface(namespace string, layer LayerKind) *LayerSurface {
	return &LayerSurface{Namespace: namespace, Layer: layer}
}

// Configure records a newly-sent configure serial.
func (l *LayerSurface) Configure(serial uint32) uint32 {
	l.lastSentSerial = serial
	return serial
}

// Subsurface is a wl_subsurface's role-specific state: parent link,
// position, and sync mode.
type Subsurface struct {
	Parent *Surface
	X, Y   int
	Synced bool

	cachedPending *pendingState
}

// NewSubsurface creates role data for a freshly-assigned subsurface,
// synchronized by default per the wl_subsurface protocol.
func NewSubsurface(parent *Surface) *Subsurface {
	return &Subsurface{Parent: parent, Synced: true}
}

// SetSync toggles synchronized/desynchronized mode.
func (s *Subsurface) SetSync(synced bool) { s.Synced = synced }
