// Package stage implements the vertex stage shared by every backend: one
// projection matrix per draw call applied to flat 2D geometry, with
// texture coordinates and colors passed through untouched.
package stage

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Input is a single vertex as the host submits it: a position in the
// space the projection matrix expects (typically display pixels), a
// texture coordinate and an RGBA color.
type Input struct {
	Pos   mgl32.Vec2
	UV    mgl32.Vec2
	Color mgl32.Vec4
}

// Output is the vertex after projection.
type Output struct {
	ClipPos mgl32.Vec4
	UV      mgl32.Vec2
	Color   mgl32.Vec4
}

// Transform projects one vertex.
//
// The clip position is m * (x, y, 0, 1). Z is fixed to zero: geometry is
// flat, and overlap between primitives is resolved by draw order, not
// depth. UV and color pass through unchanged; color components outside
// [0, 1] are kept as-is.
func Transform(m mgl32.Mat4, in Input) Output {
	return Output{
		ClipPos: m.Mul4x1(mgl32.Vec4{in.Pos[0], in.Pos[1], 0, 1}),
		UV:      in.UV,
		Color:   in.Color,
	}
}

// TransformBatch projects every vertex of a draw call with the same
// matrix. The result order matches the input order.
func TransformBatch(m mgl32.Mat4, in []Input) []Output {
	out := make([]Output, len(in))
	for i, v := range in {
		out[i] = Transform(m, v)
	}
	return out
}

// parallelThreshold is the batch size below which spawning goroutines
// costs more than it saves.
const parallelThreshold = 4096

// TransformBatchParallel behaves like TransformBatch but splits the batch
// across workers. Vertices do not depend on each other, so chunks are
// transformed concurrently; the result order still matches the input
// order. workers below one means GOMAXPROCS.
func TransformBatchParallel(m mgl32.Mat4, in []Input, workers int) []Output {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || len(in) < parallelThreshold {
		return TransformBatch(m, in)
	}

	out := make([]Output, len(in))
	chunk := (len(in) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(in); start += chunk {
		end := start + chunk
		if end > len(in) {
			end = len(in)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = Transform(m, in[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out
}
