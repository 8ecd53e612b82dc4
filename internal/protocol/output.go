package protocol

// Transform mirrors wl_output.transform (rotation/flip applied to the
// output's framebuffer).
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Output is one advertised wl_output global: its geometry, current mode,
// and scale factor.
type Output struct {
	Name string

	X, Y                  int
	PhysicalWidthMM       int
	PhysicalHeightMM      int
	Transform             Transform

	Width, Height int // current mode, in output-local pixels
	RefreshMilliHz int32

	Scale int
}

// NewOutput creates an output with scale 1.
func NewOutput(name string, width, height int, refreshMilliHz int32) *Output {
	return &Output{Name: name, Width: width, Height: height, RefreshMilliHz: refreshMilliHz, Scale: 1}
}

// RefreshIntervalNanos converts the advertised refresh rate (mHz) to a
// clamped vsync interval, per spec.md C8's
// `refresh_ns = clamp(10^12/refresh_mHz, 8ms, 33ms)` rule.
func (o *Output) RefreshIntervalNanos() int64 {
	const (
		minNanos = 8_000_000
		maxNanos = 33_000_000
	)
	if o.RefreshMilliHz <= 0 {
		return maxNanos
	}
	ns := int64(1_000_000_000_000) / int64(o.RefreshMilliHz)
	if ns < minNanos {
		return minNanos
	}
	if ns > maxNanos {
		return maxNanos
	}
	return ns
}
