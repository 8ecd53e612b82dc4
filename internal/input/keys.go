// Package input implements Axiom's input dispatcher (spec.md C7): pointer
// and keyboard state tracking, z-order hit-testing, gesture recognition
// (tap/long-press/swipe/pinch/drag), and key-combo binding resolution.
//
// Grounded on gio's gesture/gesture.go for the shape of a per-pointer
// gesture recognizer (Click/Drag/Scroll each tracking one pointer.ID's
// press/move/release sequence) and io/pointer/pointer.go for event-kind
// naming (Press/Release/Move/Enter/Leave/Cancel), inverted from gio's
// client-side "recognize gestures aimed at my widget" model into
// Axiom's compositor-side "recognize gestures and resolve which window
// or binding they target" model.
package input

import "strings"

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether m includes every bit set in other.
func (m Modifier) Has(other Modifier) bool { return m&other == other }

// Key names a non-modifier key by its XKB-ish symbolic name, e.g. "Left",
// "Q", "Return".
type Key string

// Binding is a fully-qualified key combination: modifiers plus one key.
type Binding struct {
	Mods Modifier
	Key  Key
}

// ParseBinding parses strings like "Super+Shift+Left" into a Binding. The
// final "+"-separated token is the key; every token before it must name a
// known modifier. Parsing is case-insensitive for modifier names but
// preserves the key's original case (XKB key names are case-sensitive).
func ParseBinding(s string) (Binding, bool) {
	parts := strings.Split(s, "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Binding{}, false
	}
	var b Binding
	for _, tok := range parts[:len(parts)-1] {
		mod, ok := parseModifier(tok)
		if !ok {
			return Binding{}, false
		}
		b.Mods |= mod
	}
	b.Key = Key(parts[len(parts)-1])
	return b, true
}

func parseModifier(tok string) (Modifier, bool) {
	switch strings.ToLower(tok) {
	case "shift":
		return ModShift, true
	case "ctrl", "control":
		return ModCtrl, true
	case "alt":
		return ModAlt, true
	case "super", "meta", "logo":
		return ModSuper, true
	default:
		return 0, false
	}
}
