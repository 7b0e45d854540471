package drawlist

import (
	"testing"
	"unsafe"
)

func TestVertexLayout(t *testing.T) {
	if VertexSize != 20 {
		t.Errorf("VertexSize = %d, want 20", VertexSize)
	}
	if got := int(unsafe.Sizeof(Vertex{})); got != VertexSize {
		t.Errorf("Sizeof(Vertex) = %d, want %d", got, VertexSize)
	}
	if PosOffset != 0 || UVOffset != 8 || ColOffset != 16 {
		t.Errorf("offsets = %d/%d/%d, want 0/8/16", PosOffset, UVOffset, ColOffset)
	}

	layout := Layout()
	if len(layout) != 3 {
		t.Fatalf("Layout has %d elements, want 3", len(layout))
	}
	want := []LayoutElement{
		{AttribPosition, FormatFloat32x2, 0},
		{AttribTexCoord, FormatFloat32x2, 8},
		{AttribColor, FormatUnorm8x4, 16},
	}
	for i, el := range layout {
		if el != want[i] {
			t.Errorf("Layout[%d] = %+v, want %+v", i, el, want[i])
		}
	}
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b, a float32
		want       [4]uint8
	}{
		{"black", 0, 0, 0, 0, [4]uint8{0, 0, 0, 0}},
		{"white", 1, 1, 1, 1, [4]uint8{255, 255, 255, 255}},
		{"half", 0.5, 0.5, 0.5, 1, [4]uint8{128, 128, 128, 255}},
		{"clamped", 2, -1, 0.5, 1.5, [4]uint8{255, 0, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGBA(tt.r, tt.g, tt.b, tt.a); got != tt.want {
				t.Errorf("RGBA(%v, %v, %v, %v) = %v, want %v", tt.r, tt.g, tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestUnpackRGBA(t *testing.T) {
	r, g, b, a := UnpackRGBA([4]uint8{255, 0, 128, 64})
	if r != 1 || g != 0 {
		t.Errorf("r/g = %v/%v, want 1/0", r, g)
	}
	if b != 128.0/255 || a != 64.0/255 {
		t.Errorf("b/a = %v/%v, want %v/%v", b, a, 128.0/255, 64.0/255)
	}

	// Packing the unpacked components restores every byte value.
	for v := 0; v <= 255; v++ {
		c := [4]uint8{uint8(v), uint8(255 - v), 0, 255}
		r, g, b, a := UnpackRGBA(c)
		if got := RGBA(r, g, b, a); got != c {
			t.Fatalf("round trip of %v = %v", c, got)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			"overlap",
			Rect{0, 0, 100, 100},
			Rect{50, 50, 100, 100},
			Rect{50, 50, 50, 50},
		},
		{
			"contained",
			Rect{0, 0, 100, 100},
			Rect{10, 20, 30, 40},
			Rect{10, 20, 30, 40},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}

	if got := (Rect{0, 0, 10, 10}).Intersect(Rect{20, 20, 10, 10}); !got.Empty() {
		t.Errorf("disjoint intersect = %+v, want empty", got)
	}
}

func TestRectEmpty(t *testing.T) {
	if (Rect{0, 0, 10, 10}).Empty() {
		t.Error("10x10 rect reported empty")
	}
	if !(Rect{0, 0, 0, 10}).Empty() {
		t.Error("zero width rect not reported empty")
	}
	if !(Rect{0, 0, 10, -1}).Empty() {
		t.Error("negative height rect not reported empty")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.GlobalAlpha != 1 {
		t.Errorf("GlobalAlpha = %v, want 1", opts.GlobalAlpha)
	}
	if !opts.LineAA || !opts.ShapeAA {
		t.Error("anti-aliasing not on by default")
	}
	if opts.CircleSegments != 22 || opts.ArcSegments != 22 || opts.CurveSegments != 22 {
		t.Errorf("segment counts = %d/%d/%d, want 22 each",
			opts.CircleSegments, opts.ArcSegments, opts.CurveSegments)
	}
}
