// Package drawlist accumulates 2D UI geometry into flat vertex, index and
// command buffers that any backend can render in a single pass.
//
// All primitives share one packed vertex format and one projection matrix
// per frame. Geometry is flat: vertices carry no Z, and backends draw
// commands in submission order, so later shapes simply cover earlier ones.
package drawlist

import "unsafe"

// Vertex is the packed layout shared by every backend: two position
// floats, two texture coordinate floats and four color bytes.
type Vertex struct {
	Pos [2]float32
	UV  [2]float32
	Col [4]uint8
}

// Byte layout of Vertex, for attribute pointer setup.
const (
	VertexSize = int(unsafe.Sizeof(Vertex{}))
	PosOffset  = int(unsafe.Offsetof(Vertex{}.Pos))
	UVOffset   = int(unsafe.Offsetof(Vertex{}.UV))
	ColOffset  = int(unsafe.Offsetof(Vertex{}.Col))
)

// Attrib identifies a vertex field independent of the name a shader binds
// it under.
type Attrib int

const (
	AttribPosition Attrib = iota
	AttribTexCoord
	AttribColor
)

// Format is the GPU component layout of one attribute.
type Format int

const (
	// FormatFloat32x2 is two 32-bit floats.
	FormatFloat32x2 Format = iota
	// FormatUnorm8x4 is four bytes normalized to [0, 1] on read.
	FormatUnorm8x4
)

// LayoutElement places one attribute inside the packed vertex.
type LayoutElement struct {
	Attrib Attrib
	Format Format
	Offset int
}

// Layout returns the vertex layout in attribute order. The slice is
// freshly allocated; callers may modify it.
func Layout() []LayoutElement {
	return []LayoutElement{
		{AttribPosition, FormatFloat32x2, PosOffset},
		{AttribTexCoord, FormatFloat32x2, UVOffset},
		{AttribColor, FormatUnorm8x4, ColOffset},
	}
}

// RGBA packs float color components into a vertex color. Components are
// clamped to [0, 1] here; once packed, colors travel through the pipeline
// untouched.
func RGBA(r, g, b, a float32) [4]uint8 {
	return [4]uint8{packByte(r), packByte(g), packByte(b), packByte(a)}
}

func packByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// UnpackRGBA is the inverse of RGBA: a packed vertex color back as float
// components in [0, 1].
func UnpackRGBA(c [4]uint8) (r, g, b, a float32) {
	return float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255
}

// White is the color most textured quads are drawn with.
var White = [4]uint8{255, 255, 255, 255}

// Rect is an axis-aligned rectangle in display coordinates, origin top
// left, Y growing downward.
type Rect struct {
	X, Y, W, H float32
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlap of two rectangles. The result is Empty
// when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max32(r.X, o.X)
	y0 := max32(r.Y, o.Y)
	x1 := min32(r.X+r.W, o.X+o.W)
	y1 := min32(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// TextureID is an opaque handle a backend hands out for uploaded
// textures. Zero is never a valid handle.
type TextureID uint32

// NullTexture is what untextured geometry samples: a solid white texel,
// so multiplying by it leaves vertex colors unchanged. Typically it
// points into the baked font atlas.
type NullTexture struct {
	Texture TextureID
	UV      [2]float32
}

// Command is one ranged draw: ElemCount indices from the shared index
// buffer, drawn with one texture under one scissor rectangle. Backends
// keep a running index offset; commands with ElemCount below one are
// skipped.
type Command struct {
	ElemCount int
	Texture   TextureID
	Clip      Rect
}

// Default capacity limits for a List.
const (
	DefaultMaxVertices = 65536
	DefaultMaxElements = 256 * 1024
)

// Options control how primitives are tessellated.
type Options struct {
	// GlobalAlpha is multiplied into the alpha of every vertex.
	GlobalAlpha float32

	// LineAA feathers the edges of stroked paths by one pixel.
	LineAA bool
	// ShapeAA feathers the edges of filled shapes by one pixel.
	ShapeAA bool

	// Segment counts used when tessellating curved primitives.
	CircleSegments int
	ArcSegments    int
	CurveSegments  int

	// Null is the texture bound for untextured geometry.
	Null NullTexture

	// Capacity limits. Zero means the defaults. MaxVertices is capped
	// at 65536 because indices are 16 bit.
	MaxVertices int
	MaxElements int
}

// DefaultOptions returns the options every drawer starts from:
// anti-aliasing on, full alpha, 22 segments per circle.
func DefaultOptions() Options {
	return Options{
		GlobalAlpha:    1,
		LineAA:         true,
		ShapeAA:        true,
		CircleSegments: 22,
		ArcSegments:    22,
		CurveSegments:  22,
		MaxVertices:    DefaultMaxVertices,
		MaxElements:    DefaultMaxElements,
	}
}
