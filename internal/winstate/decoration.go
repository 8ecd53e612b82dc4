// Package winstate tracks per-window decoration and configure/ack state
// (spec.md C5): server/client-side decoration mode, titlebar button
// geometry and interaction, and the serial bookkeeping that ties an
// xdg_surface's configure events to the client's ack_configure replies.
package winstate

import "axiom.land/axiom/internal/geom"

// DecorationMode selects who draws a window's titlebar and borders.
type DecorationMode int

const (
	ClientSide DecorationMode = iota
	ServerSide
	NoDecoration
)

// Color is a straight RGBA float color, matching the teacher's
// decoration theme convention.
type Color struct {
	R, G, B, A float32
}

// ParseColor parses a "#RRGGBB" hex string into a Color. On malformed
// input it reports ok=false so callers can fall back to a theme default,
// grounded on original_source/src/decoration.rs's parse_color.
func ParseColor(hex string) (Color, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return Color{}, false
	}
	r, ok1 := hexByte(hex[1:3])
	g, ok2 := hexByte(hex[3:5])
	b, ok3 := hexByte(hex[5:7])
	if !ok1 || !ok2 || !ok3 {
		return Color{}, false
	}
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}, true
}

func hexByte(s string) (int, bool) {
	v := 0
	for _, c := range s {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= int(c - '0')
		case c >= 'a' && c <= 'f':
			v |= int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= int(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}

// Theme holds the compositor-wide decoration appearance, sourced from the
// `[window]` config section with the two border colors overridable by hex
// strings (falling back to the built-in defaults on parse failure).
type Theme struct {
	TitlebarHeight       int
	BorderWidthFocused   int
	BorderWidthUnfocused int

	TitlebarBgFocused   Color
	TitlebarBgUnfocused Color
	TextColorFocused    Color
	TextColorUnfocused  Color
	BorderColorFocused  Color
	BorderColorUnfocused Color

	ButtonSize     int
	ButtonNormal   Color
	ButtonHovered  Color
	ButtonPressed  Color
	CloseNormal    Color
	CloseHovered   Color
	ClosePressed   Color

	CornerRadius float32
	FontSize     float32
}

// DefaultTheme returns Axiom's built-in decoration theme.
func DefaultTheme() Theme {
	return Theme{
		TitlebarHeight:       32,
		BorderWidthFocused:   2,
		BorderWidthUnfocused: 1,
		TitlebarBgFocused:    Color{0.15, 0.15, 0.15, 1},
		TitlebarBgUnfocused:  Color{0.1, 0.1, 0.1, 1},
		TextColorFocused:     Color{1, 1, 1, 1},
		TextColorUnfocused:   Color{0.7, 0.7, 0.7, 1},
		BorderColorFocused:   Color{0.482, 0.235, 0.929, 1},
		BorderColorUnfocused: Color{0.216, 0.255, 0.318, 1},
		ButtonSize:           24,
		ButtonNormal:         Color{0.2, 0.2, 0.2, 1},
		ButtonHovered:        Color{0.3, 0.3, 0.3, 1},
		ButtonPressed:        Color{0.1, 0.1, 0.1, 1},
		CloseNormal:          Color{0.8, 0.2, 0.2, 1},
		CloseHovered:         Color{1.0, 0.3, 0.3, 1},
		ClosePressed:         Color{0.6, 0.1, 0.1, 1},
		CornerRadius:         8.0,
		FontSize:             14.0,
	}
}

// ButtonState is the interaction state of a single titlebar button.
type ButtonState struct {
	Visible bool
	Enabled bool
	Hovered bool
	Pressed bool
	Bounds  geom.Rect
}

func newButtonState() ButtonState {
	return ButtonState{Visible: true, Enabled: true, Bounds: geom.NewRect(0, 0, 24, 24)}
}

// TitlebarButtons groups the three standard window-management buttons.
type TitlebarButtons struct {
	Close, Minimize, Maximize ButtonState
}

// DecorationAction is the semantic result of a press on a decoration
// element, for the caller (the input dispatcher) to act on.
type DecorationAction int

const (
	ActionNone DecorationAction = iota
	ActionClose
	ActionMinimize
	ActionToggleMaximize
	ActionStartMove
	ActionStartResize
)

// ResizeEdge identifies which edge(s) a decoration-initiated resize drags.
type ResizeEdge int

const (
	EdgeNone ResizeEdge = iota
	EdgeTop
	EdgeBottom
	EdgeLeft
	EdgeRight
	EdgeTopLeft
	EdgeTopRight
	EdgeBottomLeft
	EdgeBottomRight
)

// Decoration is one window's decoration state.
type Decoration struct {
	Mode               DecorationMode
	PrefersServerSide   bool
	TitlebarHeight      int
	Title               string
	Focused             bool
	Buttons             TitlebarButtons
}

func newDecoration(prefersServerSide bool, title string, theme Theme, defaultMode DecorationMode) Decoration {
	mode := ClientSide
	if prefersServerSide {
		mode = defaultMode
	}
	d := Decoration{
		Mode:              mode,
		PrefersServerSide: prefersServerSide,
		Title:             title,
		Buttons: TitlebarButtons{
			Close:    newButtonState(),
			Minimize: newButtonState(),
			Maximize: newButtonState(),
		},
	}
	if mode == ServerSide {
		d.TitlebarHeight = theme.TitlebarHeight
	}
	return d
}
