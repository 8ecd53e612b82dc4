package texture

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// SourceBuffer describes a client's wl_shm attachment: a pointer to the
// already-mmap'd pool memory, the byte offset of this buffer within it,
// and the format/geometry negotiated by wl_shm_pool.create_buffer.
type SourceBuffer struct {
	Data          []byte
	Offset        int
	Width, Height int
	Stride        int
	Format        Format
}

// fallbackColor is the solid color an unsupported or malformed buffer
// converts to, rather than failing the commit outright — a client
// sending garbage shouldn't take down its own window, only degrade it.
var fallbackColor = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff} // opaque dark gray

// shmSource adapts a raw wl_shm buffer to image.Image so its pixel
// format can be converted through golang.org/x/image/draw's Draw rather
// than a hand-rolled scanline loop; At is only ever called within
// Bounds(), which Upload has already range-checked against src.Data.
type shmSource struct {
	src SourceBuffer
}

func (m shmSource) ColorModel() color.Model { return color.RGBAModel }

func (m shmSource) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.src.Width, m.src.Height)
}

func (m shmSource) At(x, y int) color.Color {
	rowStart := m.src.Offset + y*m.src.Stride
	px := m.src.Data[rowStart+x*4 : rowStart+x*4+4]
	r, g, b, a := swizzle(m.src.Format, px)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// Upload decodes src into an internal RGBA image suitable for caching
// and compositing. An unsupported format or a buffer too small for its
// declared stride/height soft-fails into a solid-color placeholder
// rather than returning an error, per spec.md C2's "never crash the
// compositor over a malformed client buffer" rule; ok reports whether
// the real pixel data was used.
func Upload(src SourceBuffer) (img *image.RGBA, ok bool) {
	if src.Width <= 0 || src.Height <= 0 {
		return solidFill(1, 1), false
	}
	if !Supported(src.Format) {
		return solidFill(src.Width, src.Height), false
	}
	need := src.Offset + src.Stride*src.Height
	if src.Stride < src.Width*4 || need > len(src.Data) {
		return solidFill(src.Width, src.Height), false
	}

	out := image.NewRGBA(image.Rect(0, 0, src.Width, src.Height))
	draw.Draw(out, out.Bounds(), shmSource{src: src}, image.Point{}, draw.Src)
	return out, true
}

func solidFill(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fallbackColor}, image.Point{}, draw.Src)
	return img
}

// UploadToCache decodes src and inserts it into cache under windowID at
// the given frame number, in one step.
func UploadToCache(cache *Cache, windowID uint64, frameNumber uint64, src SourceBuffer) *Entry {
	img, ok := Upload(src)
	entry := &Entry{
		Image:       img,
		WindowID:    windowID,
		FrameNumber: frameNumber,
		Bytes:       len(img.Pix),
		Fallback:    !ok,
	}
	cache.Put(entry)
	return entry
}
