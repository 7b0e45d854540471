package stage

import "github.com/go-gl/mathgl/mgl32"

// Viewport describes the surface a frame is drawn to: the display size,
// the DPI and UI scale factors, and the framebuffer rectangle. Construct
// with NewViewport; the zero value has zero factors and projects
// everything to the origin.
type Viewport struct {
	DisplayWidth  float32
	DisplayHeight float32
	DPIFactor     [2]float32
	ScaleFactor   [2]float32
	Rect          [4]int32
}

// NewViewport returns a viewport covering a width by height display with
// unit DPI and scale factors.
func NewViewport(width, height int) Viewport {
	return Viewport{
		DisplayWidth:  float32(width),
		DisplayHeight: float32(height),
		DPIFactor:     [2]float32{1, 1},
		ScaleFactor:   [2]float32{1, 1},
		Rect:          [4]int32{0, 0, int32(width), int32(height)},
	}
}

// WithDPIFactor returns a copy with the DPI factor replaced.
func (v Viewport) WithDPIFactor(x, y float32) Viewport {
	v.DPIFactor = [2]float32{x, y}
	return v
}

// WithScaleFactor returns a copy with the UI scale factor replaced.
func (v Viewport) WithScaleFactor(x, y float32) Viewport {
	v.ScaleFactor = [2]float32{x, y}
	return v
}

// WithRect returns a copy with the framebuffer rectangle replaced.
func (v Viewport) WithRect(x, y, w, h int32) Viewport {
	v.Rect = [4]int32{x, y, w, h}
	return v
}

// Factors returns the combined per-axis pixel scale.
func (v Viewport) Factors() (fx, fy float32) {
	return v.DPIFactor[0] * v.ScaleFactor[0], v.DPIFactor[1] * v.ScaleFactor[1]
}

// Ortho returns the projection for UI drawing: (0, 0) is the top left of
// the display and (width, height) the bottom right, Y growing downward.
// Combined with the stage's fixed Z the third row only ever multiplies
// zero, so depth never participates.
func (v Viewport) Ortho() mgl32.Mat4 {
	fx, fy := v.Factors()
	return mgl32.Mat4{
		2 / v.DisplayWidth * fx, 0, 0, 0,
		0, -2 / v.DisplayHeight * fy, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

// Scissor converts a clip rectangle in display coordinates (origin top
// left) into GL scissor coordinates (origin bottom left), applying the
// DPI and scale factors.
func (v Viewport) Scissor(x, y, w, h float32) (sx, sy, sw, sh int32) {
	fx, fy := v.Factors()
	sx = int32(x * fx)
	sy = int32((v.DisplayHeight - (y + h)) * fy)
	sw = int32(w * fx)
	sh = int32(h * fy)
	return
}

// ScissorTopLeft converts a clip rectangle into top-left-origin scissor
// coordinates as WebGPU style APIs expect, clamped to the framebuffer
// rectangle. Scaled coordinates can land outside the render target, and
// the target rejects such scissors, so the clamp is against Rect rather
// than the scaled display extent. Out of range rectangles come back with
// zero area.
func (v Viewport) ScissorTopLeft(x, y, w, h float32) (sx, sy, sw, sh uint32) {
	fx, fy := v.Factors()
	x0 := x * fx
	y0 := y * fy
	x1 := (x + w) * fx
	y1 := (y + h) * fy

	fbx0 := float32(v.Rect[0])
	fby0 := float32(v.Rect[1])
	fbx1 := float32(v.Rect[0] + v.Rect[2])
	fby1 := float32(v.Rect[1] + v.Rect[3])
	x0 = clamp32(x0, fbx0, fbx1)
	y0 = clamp32(y0, fby0, fby1)
	x1 = clamp32(x1, fbx0, fbx1)
	y1 = clamp32(y1, fby0, fby1)
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, 0
	}
	return uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0)
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
