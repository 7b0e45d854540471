package drawlist

import "math"

// noClip is the clip rectangle commands start with. Large enough that it
// never cuts real geometry, so backends can scissor it without a special
// case.
var noClip = Rect{X: -8192, Y: -8192, W: 16384, H: 16384}

// List accumulates the vertices, indices and commands for one frame.
// Build it on one goroutine, hand it to a backend, Reset, repeat.
type List struct {
	opts Options

	vertices []Vertex
	indices  []uint16
	commands []Command

	clip      Rect
	clipStack []Rect

	truncated bool
}

// New returns an empty list. Zero capacity limits and segment counts in
// opts are replaced with the defaults.
func New(opts Options) *List {
	if opts.MaxVertices <= 0 {
		opts.MaxVertices = DefaultMaxVertices
	}
	if opts.MaxVertices > DefaultMaxVertices {
		// 16-bit indices cannot address more
		opts.MaxVertices = DefaultMaxVertices
	}
	if opts.MaxElements <= 0 {
		opts.MaxElements = DefaultMaxElements
	}
	if opts.CircleSegments <= 0 {
		opts.CircleSegments = 22
	}
	if opts.ArcSegments <= 0 {
		opts.ArcSegments = 22
	}
	if opts.CurveSegments <= 0 {
		opts.CurveSegments = 22
	}
	return &List{opts: opts, clip: noClip}
}

// Options returns the options the list was built with.
func (l *List) Options() Options { return l.opts }

// Vertices returns the shared vertex buffer in submission order.
func (l *List) Vertices() []Vertex { return l.vertices }

// Indices returns the shared 16-bit index buffer.
func (l *List) Indices() []uint16 { return l.indices }

// Commands returns the draw commands in submission order. The first index
// of command i is the sum of the ElemCounts before it.
func (l *List) Commands() []Command { return l.commands }

// Truncated reports whether geometry was dropped because a capacity limit
// was reached since the last Reset.
func (l *List) Truncated() bool { return l.truncated }

// Reset clears the list for the next frame, keeping allocations.
func (l *List) Reset() {
	l.vertices = l.vertices[:0]
	l.indices = l.indices[:0]
	l.commands = l.commands[:0]
	l.clipStack = l.clipStack[:0]
	l.clip = noClip
	l.truncated = false
}

// PushClip restricts subsequent commands to r intersected with the
// current clip rectangle.
func (l *List) PushClip(r Rect) {
	l.clipStack = append(l.clipStack, l.clip)
	l.clip = l.clip.Intersect(r)
}

// PopClip restores the clip rectangle active before the matching
// PushClip.
func (l *List) PopClip() {
	if n := len(l.clipStack); n > 0 {
		l.clip = l.clipStack[n-1]
		l.clipStack = l.clipStack[:n-1]
	} else {
		l.clip = noClip
	}
}

// command returns the command new geometry is appended to, reusing the
// last one when texture and clip match.
func (l *List) command(tex TextureID) *Command {
	if n := len(l.commands); n > 0 {
		c := &l.commands[n-1]
		if c.Texture == tex && c.Clip == l.clip {
			return c
		}
	}
	l.commands = append(l.commands, Command{Texture: tex, Clip: l.clip})
	return &l.commands[len(l.commands)-1]
}

// ensure checks the capacity limits before appending geometry.
func (l *List) ensure(vtx, idx int) bool {
	if len(l.vertices)+vtx > l.opts.MaxVertices || len(l.indices)+idx > l.opts.MaxElements {
		l.truncated = true
		return false
	}
	return true
}

// shade applies the global alpha to a color.
func (l *List) shade(col [4]uint8) [4]uint8 {
	if l.opts.GlobalAlpha >= 1 {
		return col
	}
	a := float32(col[3]) * l.opts.GlobalAlpha
	if a < 0 {
		a = 0
	}
	col[3] = uint8(a)
	return col
}

// FillRect fills an axis-aligned rectangle.
func (l *List) FillRect(r Rect, col [4]uint8) {
	if r.Empty() {
		return
	}
	pts := [][2]float32{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
	l.FillConvexPoly(pts, col)
}

// FillTriangle fills a single triangle.
func (l *List) FillTriangle(a, b, c [2]float32, col [4]uint8) {
	l.FillConvexPoly([][2]float32{a, b, c}, col)
}

// FillCircle fills a circle tessellated with the configured segment
// count.
func (l *List) FillCircle(center [2]float32, radius float32, col [4]uint8) {
	if radius <= 0 {
		return
	}
	l.FillConvexPoly(circlePoints(center, radius, l.opts.CircleSegments), col)
}

// StrokeCircle outlines a circle.
func (l *List) StrokeCircle(center [2]float32, radius, thickness float32, col [4]uint8) {
	if radius <= 0 {
		return
	}
	l.StrokePolyline(circlePoints(center, radius, l.opts.CircleSegments), thickness, col, true)
}

// StrokeRect outlines an axis-aligned rectangle.
func (l *List) StrokeRect(r Rect, thickness float32, col [4]uint8) {
	if r.Empty() {
		return
	}
	pts := [][2]float32{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
	l.StrokePolyline(pts, thickness, col, true)
}

// StrokeLine draws a single line segment.
func (l *List) StrokeLine(a, b [2]float32, thickness float32, col [4]uint8) {
	l.StrokePolyline([][2]float32{a, b}, thickness, col, false)
}

// FillConvexPoly fills a convex polygon. Points are given clockwise in
// screen coordinates (Y down). With shape anti-aliasing on, the edge is
// feathered by one pixel: an inner fan at full color and a ring fading to
// transparent.
func (l *List) FillConvexPoly(pts [][2]float32, col [4]uint8) {
	n := len(pts)
	if n < 3 {
		return
	}
	col = l.shade(col)
	uv := l.opts.Null.UV
	tex := l.opts.Null.Texture

	if !l.opts.ShapeAA {
		idxCount := (n - 2) * 3
		if !l.ensure(n, idxCount) {
			return
		}
		cmd := l.command(tex)
		base := uint16(len(l.vertices))
		for _, p := range pts {
			l.vertices = append(l.vertices, Vertex{Pos: p, UV: uv, Col: col})
		}
		for i := 2; i < n; i++ {
			l.indices = append(l.indices, base, base+uint16(i-1), base+uint16(i))
		}
		cmd.ElemCount += idxCount
		return
	}

	const feather = 1.0
	trans := [4]uint8{col[0], col[1], col[2], 0}
	idxCount := (n-2)*3 + n*6
	if !l.ensure(n*2, idxCount) {
		return
	}
	cmd := l.command(tex)
	base := uint16(len(l.vertices))

	normals := make([][2]float32, n)
	for i0, i1 := n-1, 0; i1 < n; i0, i1 = i1, i1+1 {
		dx := pts[i1][0] - pts[i0][0]
		dy := pts[i1][1] - pts[i0][1]
		if d := float32(math.Sqrt(float64(dx*dx + dy*dy))); d > 0 {
			dx /= d
			dy /= d
		}
		normals[i0] = [2]float32{dy, -dx}
	}

	// Vertex pairs: even = inner (full color), odd = outer (transparent).
	for i0, i1 := n-1, 0; i1 < n; i0, i1 = i1, i1+1 {
		nx := (normals[i0][0] + normals[i1][0]) * 0.5
		ny := (normals[i0][1] + normals[i1][1]) * 0.5
		if d2 := nx*nx + ny*ny; d2 > 1e-6 {
			scale := 1 / d2
			if scale > 100 {
				scale = 100
			}
			nx *= scale
			ny *= scale
		}
		nx *= feather * 0.5
		ny *= feather * 0.5
		p := pts[i1]
		l.vertices = append(l.vertices,
			Vertex{Pos: [2]float32{p[0] - nx, p[1] - ny}, UV: uv, Col: col},
			Vertex{Pos: [2]float32{p[0] + nx, p[1] + ny}, UV: uv, Col: trans},
		)
	}

	for i := 2; i < n; i++ {
		l.indices = append(l.indices, base, base+uint16(i-1)*2, base+uint16(i)*2)
	}
	for i0, i1 := n-1, 0; i1 < n; i0, i1 = i1, i1+1 {
		in0 := base + uint16(i0)*2
		in1 := base + uint16(i1)*2
		l.indices = append(l.indices,
			in0, in1, in1+1,
			in1+1, in0+1, in0,
		)
	}
	cmd.ElemCount += idxCount
}

// StrokePolyline strokes a path segment by segment. With line
// anti-aliasing on, each segment gets a solid core quad and a one pixel
// feather strip on each side. Lines thinner than a pixel keep a one pixel
// core and fade their alpha instead.
func (l *List) StrokePolyline(pts [][2]float32, thickness float32, col [4]uint8, closed bool) {
	n := len(pts)
	if n < 2 || thickness <= 0 {
		return
	}
	col = l.shade(col)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		l.strokeSegment(a, b, thickness, col)
	}
}

func (l *List) strokeSegment(a, b [2]float32, thickness float32, col [4]uint8) {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if d == 0 {
		return
	}
	dx /= d
	dy /= d
	nx, ny := dy, -dx

	uv := l.opts.Null.UV
	tex := l.opts.Null.Texture

	if !l.opts.LineAA {
		hw := thickness * 0.5
		if !l.ensure(4, 6) {
			return
		}
		cmd := l.command(tex)
		base := uint16(len(l.vertices))
		l.vertices = append(l.vertices,
			Vertex{Pos: [2]float32{a[0] + nx*hw, a[1] + ny*hw}, UV: uv, Col: col},
			Vertex{Pos: [2]float32{b[0] + nx*hw, b[1] + ny*hw}, UV: uv, Col: col},
			Vertex{Pos: [2]float32{b[0] - nx*hw, b[1] - ny*hw}, UV: uv, Col: col},
			Vertex{Pos: [2]float32{a[0] - nx*hw, a[1] - ny*hw}, UV: uv, Col: col},
		)
		l.indices = append(l.indices, base, base+1, base+2, base, base+2, base+3)
		cmd.ElemCount += 6
		return
	}

	const feather = 1.0
	core := thickness*0.5 - feather*0.5
	if core < 0 {
		core = 0
		if thickness < 1 {
			col[3] = uint8(float32(col[3]) * thickness)
		}
	}
	outer := core + feather
	trans := [4]uint8{col[0], col[1], col[2], 0}

	if !l.ensure(8, 18) {
		return
	}
	cmd := l.command(tex)
	base := uint16(len(l.vertices))
	// Four rows per endpoint, outside in: +outer, +core, -core, -outer.
	for _, p := range [2][2]float32{a, b} {
		l.vertices = append(l.vertices,
			Vertex{Pos: [2]float32{p[0] + nx*outer, p[1] + ny*outer}, UV: uv, Col: trans},
			Vertex{Pos: [2]float32{p[0] + nx*core, p[1] + ny*core}, UV: uv, Col: col},
			Vertex{Pos: [2]float32{p[0] - nx*core, p[1] - ny*core}, UV: uv, Col: col},
			Vertex{Pos: [2]float32{p[0] - nx*outer, p[1] - ny*outer}, UV: uv, Col: trans},
		)
	}
	for row := uint16(0); row < 3; row++ {
		a0 := base + row
		a1 := base + row + 1
		b0 := base + 4 + row
		b1 := base + 4 + row + 1
		l.indices = append(l.indices, a0, b0, b1, b1, a1, a0)
	}
	cmd.ElemCount += 18
}

// Image draws a textured quad. uv0 and uv1 are the texture coordinates of
// the top left and bottom right corners; col tints the texture, White for
// none.
func (l *List) Image(tex TextureID, r Rect, uv0, uv1 [2]float32, col [4]uint8) {
	if r.Empty() {
		return
	}
	col = l.shade(col)
	if !l.ensure(4, 6) {
		return
	}
	cmd := l.command(tex)
	base := uint16(len(l.vertices))
	l.vertices = append(l.vertices,
		Vertex{Pos: [2]float32{r.X, r.Y}, UV: uv0, Col: col},
		Vertex{Pos: [2]float32{r.X + r.W, r.Y}, UV: [2]float32{uv1[0], uv0[1]}, Col: col},
		Vertex{Pos: [2]float32{r.X + r.W, r.Y + r.H}, UV: uv1, Col: col},
		Vertex{Pos: [2]float32{r.X, r.Y + r.H}, UV: [2]float32{uv0[0], uv1[1]}, Col: col},
	)
	l.indices = append(l.indices, base, base+1, base+2, base, base+2, base+3)
	cmd.ElemCount += 6
}

func circlePoints(center [2]float32, radius float32, segments int) [][2]float32 {
	if segments < 3 {
		segments = 3
	}
	pts := make([][2]float32, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = [2]float32{
			center[0] + radius*float32(math.Cos(a)),
			center[1] + radius*float32(math.Sin(a)),
		}
	}
	return pts
}
