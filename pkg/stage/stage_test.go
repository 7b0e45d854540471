package stage

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// mat4Rows builds a matrix from row-major values so test fixtures read
// the way matrices are written on paper.
func mat4Rows(rows [16]float32) mgl32.Mat4 {
	return mgl32.Mat4(rows).Transpose()
}

func vec4Near(a, b mgl32.Vec4, eps float32) bool {
	for i := 0; i < 4; i++ {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

func TestTransformIdentity(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"origin", Input{}},
		{"positive", Input{Pos: mgl32.Vec2{3, 7}}},
		{"negative", Input{Pos: mgl32.Vec2{-12.5, 0.25}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Transform(mgl32.Ident4(), tt.in)
			want := mgl32.Vec4{tt.in.Pos[0], tt.in.Pos[1], 0, 1}
			if out.ClipPos != want {
				t.Errorf("ClipPos = %v, want %v", out.ClipPos, want)
			}
		})
	}
}

func TestTransformZeroMatrix(t *testing.T) {
	out := Transform(mgl32.Mat4{}, Input{
		Pos:   mgl32.Vec2{5, -3},
		UV:    mgl32.Vec2{0.5, 0.5},
		Color: mgl32.Vec4{1, 0, 0, 1},
	})
	if out.ClipPos != (mgl32.Vec4{}) {
		t.Errorf("ClipPos = %v, want the zero vector", out.ClipPos)
	}
	// Pass-through does not depend on the matrix.
	if out.UV != (mgl32.Vec2{0.5, 0.5}) || out.Color != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Errorf("UV/Color = %v/%v, want them unchanged", out.UV, out.Color)
	}
}

func TestTransformMatchesMatrixProduct(t *testing.T) {
	m := mat4Rows([16]float32{
		2, 0.5, 9, -1,
		-3, 1.25, 4, 2,
		7, -2, 0.5, 3,
		0.1, 0.2, 0.3, 1,
	})
	in := Input{Pos: mgl32.Vec2{4, -6}}
	out := Transform(m, in)

	want := m.Mul4x1(mgl32.Vec4{4, -6, 0, 1})
	if !vec4Near(out.ClipPos, want, 1e-4) {
		t.Errorf("ClipPos = %v, want %v", out.ClipPos, want)
	}
	// Spelled out against the row-major fixture: row dot (x, y, 0, 1).
	manual := mgl32.Vec4{
		2*4 + 0.5*-6 + -1,
		-3*4 + 1.25*-6 + 2,
		7*4 + -2*-6 + 3,
		0.1*4 + 0.2*-6 + 1,
	}
	if !vec4Near(out.ClipPos, manual, 1e-4) {
		t.Errorf("ClipPos = %v, want %v by hand", out.ClipPos, manual)
	}
}

func TestTransformIgnoresZColumn(t *testing.T) {
	m := mat4Rows([16]float32{
		1, 0, 123, 0,
		0, 1, -456, 0,
		0, 0, 789, 0,
		0, 0, 42, 1,
	})
	out := Transform(m, Input{Pos: mgl32.Vec2{8, 9}})
	// With Z fixed to zero the third column never contributes.
	want := mgl32.Vec4{8, 9, 0, 1}
	if out.ClipPos != want {
		t.Errorf("ClipPos = %v, want %v regardless of the Z column", out.ClipPos, want)
	}
}

func TestTransformPassThrough(t *testing.T) {
	tests := []struct {
		name  string
		uv    mgl32.Vec2
		color mgl32.Vec4
	}{
		{"plain", mgl32.Vec2{0.25, 0.75}, mgl32.Vec4{0.1, 0.2, 0.3, 0.4}},
		{"uv outside unit square", mgl32.Vec2{-2, 3.5}, mgl32.Vec4{1, 1, 1, 1}},
		{"color above one", mgl32.Vec2{0, 0}, mgl32.Vec4{2.5, 0, 0, 1}},
		{"color negative", mgl32.Vec2{1, 1}, mgl32.Vec4{-1, 0.5, 10, -0.25}},
	}
	m := mat4Rows([16]float32{
		3, 1, 0, 5,
		2, -4, 0, 6,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Transform(m, Input{Pos: mgl32.Vec2{1, 1}, UV: tt.uv, Color: tt.color})
			if out.UV != tt.uv {
				t.Errorf("UV = %v, want %v", out.UV, tt.uv)
			}
			if out.Color != tt.color {
				t.Errorf("Color = %v, want %v unclamped", out.Color, tt.color)
			}
		})
	}
}

// One concrete vertex checked end to end: position (1, 2), centered UV,
// opaque red, projected with the identity matrix.
func TestTransformConcreteVertex(t *testing.T) {
	out := Transform(mgl32.Ident4(), Input{
		Pos:   mgl32.Vec2{1, 2},
		UV:    mgl32.Vec2{0.5, 0.5},
		Color: mgl32.Vec4{1, 0, 0, 1},
	})
	if out.ClipPos != (mgl32.Vec4{1, 2, 0, 1}) {
		t.Errorf("ClipPos = %v, want (1, 2, 0, 1)", out.ClipPos)
	}
	if out.UV != (mgl32.Vec2{0.5, 0.5}) {
		t.Errorf("UV = %v, want (0.5, 0.5)", out.UV)
	}
	if out.Color != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Errorf("Color = %v, want opaque red", out.Color)
	}
}

func lcgInputs(n int) []Input {
	in := make([]Input, n)
	seed := uint32(12345)
	next := func() float32 {
		seed = seed*1664525 + 1013904223
		return float32(seed%2000)/100 - 10
	}
	for i := range in {
		in[i] = Input{
			Pos:   mgl32.Vec2{next(), next()},
			UV:    mgl32.Vec2{next(), next()},
			Color: mgl32.Vec4{next(), next(), next(), next()},
		}
	}
	return in
}

func TestTransformBatch(t *testing.T) {
	m := mat4Rows([16]float32{
		0.5, 0, 0, -1,
		0, -0.25, 0, 1,
		0, 0, -1, 0,
		0, 0, 0, 1,
	})
	in := lcgInputs(100)
	out := TransformBatch(m, in)
	if len(out) != len(in) {
		t.Fatalf("batch length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != Transform(m, in[i]) {
			t.Fatalf("batch vertex %d differs from single transform", i)
		}
	}

	if got := TransformBatch(m, nil); len(got) != 0 {
		t.Errorf("empty batch produced %d outputs", len(got))
	}
}

func TestTransformBatchParallel(t *testing.T) {
	m := mat4Rows([16]float32{
		2, 1, 0, 3,
		-1, 0.5, 0, -2,
		0, 0, -1, 0,
		0, 0, 0, 1,
	})
	in := lcgInputs(10000)
	serial := TransformBatch(m, in)

	for _, workers := range []int{0, 1, 2, 7} {
		got := TransformBatchParallel(m, in, workers)
		if len(got) != len(serial) {
			t.Fatalf("workers=%d: length %d, want %d", workers, len(got), len(serial))
		}
		for i := range serial {
			if got[i] != serial[i] {
				t.Fatalf("workers=%d: vertex %d differs from serial result", workers, i)
			}
		}
	}
}
