// Package texture implements Axiom's SHM-to-GPU texture upload path
// (spec.md C2): validating a client's wl_shm buffer format, converting it
// into the compositor's internal RGBA representation, and caching
// uploaded textures with frame-keyed LRU eviction under a byte budget.
//
// Grounded on friedelschoen-ctxmenu's wayland.go (mmap'd wl_shm pool,
// syscall.Mmap(..., PROT_READ|PROT_WRITE, MAP_SHARED)) for the
// shared-memory access pattern, and gio's gpu/caches.go (now removed from
// the tree; its res/newRes double-map generational-swap shape is
// reproduced here) for the frame-keyed cache eviction policy.
package texture

import "fmt"

// Format identifies a wl_shm pixel format Axiom accepts, per spec.md C2's
// "ARGB8888/XRGB8888 + BGR/RGBA variants" validation rule.
type Format uint32

// The first two values are wl_shm's core enum entries (0 and 1); the BGR
// variants use their DRM/wl_shm fourcc codes.
const (
	FormatARGB8888 Format = 0
	FormatXRGB8888 Format = 1
	FormatABGR8888 Format = 0x34324241 // fourcc "AB24"
	FormatXBGR8888 Format = 0x34324258 // fourcc "XB24"
)

// supported is the set of formats Axiom's uploader accepts directly.
var supported = map[Format]bool{
	FormatARGB8888: true,
	FormatXRGB8888: true,
	FormatABGR8888: true,
	FormatXBGR8888: true,
}

// Supported reports whether f is one of the pixel formats the uploader
// can convert without a fallback.
func Supported(f Format) bool { return supported[f] }

// hasAlpha reports whether f carries a meaningful alpha channel (ARGB
// variants do; XRGB variants' "alpha" byte is unused padding, always
// treated as opaque).
func hasAlpha(f Format) bool {
	return f == FormatARGB8888 || f == FormatABGR8888
}

// swizzle converts one pixel's four bytes, stored in wire order, to
// straight RGBA order as used by Go's image.RGBA.
func swizzle(f Format, b []byte) (r, g, bch, a byte) {
	switch f {
	case FormatARGB8888, FormatXRGB8888:
		// wire order (little-endian 32-bit word) is B,G,R,A in byte order.
		bch, g, r, a = b[0], b[1], b[2], b[3]
	case FormatABGR8888, FormatXBGR8888:
		r, g, bch, a = b[0], b[1], b[2], b[3]
	default:
		return 0, 0, 0, 0
	}
	if !hasAlpha(f) {
		a = 0xff
	}
	return r, g, bch, a
}

// ErrUnsupportedFormat is returned when a buffer's format cannot be
// converted and no fallback is requested.
type ErrUnsupportedFormat struct{ Format Format }

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("texture: unsupported shm format 0x%x", uint32(e.Format))
}
