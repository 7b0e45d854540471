// Package ebitengine renders draw lists onto Ebitengine images.
//
// Unlike the GL and wgpu backends it needs no shaders or projection: draw
// list positions already are destination pixels, so vertices map straight
// onto DrawTriangles and clipping uses SubImage.
package ebitengine

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"guidraw/pkg/drawlist"
	"guidraw/pkg/stage"
)

// whiteTexture is the handle every renderer reserves for untextured
// drawing.
const whiteTexture drawlist.TextureID = 1

// Renderer maps draw list texture handles onto Ebitengine images.
type Renderer struct {
	textures map[drawlist.TextureID]*ebiten.Image
	next     drawlist.TextureID
	backing  *ebiten.Image
	scratch  []ebiten.Vertex
}

// New creates a renderer with the white texture registered.
func New() *Renderer {
	// A 3x3 backing image with the center pixel as the white source keeps
	// linear sampling inside the pixel.
	backing := ebiten.NewImage(3, 3)
	backing.Fill(color.White)
	white := backing.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	return &Renderer{
		textures: map[drawlist.TextureID]*ebiten.Image{whiteTexture: white},
		next:     whiteTexture + 1,
		backing:  backing,
	}
}

// NullTexture returns the binding draw lists need for untextured shapes.
func (r *Renderer) NullTexture() drawlist.NullTexture {
	return drawlist.NullTexture{Texture: whiteTexture, UV: [2]float32{0.5, 0.5}}
}

// RegisterImage uploads an image and returns its draw list handle.
func (r *Renderer) RegisterImage(img image.Image) drawlist.TextureID {
	id := r.next
	r.next++
	r.textures[id] = ebiten.NewImageFromImage(img)
	return id
}

func (r *Renderer) texture(id drawlist.TextureID) *ebiten.Image {
	if img, ok := r.textures[id]; ok {
		return img
	}
	return r.textures[whiteTexture]
}

// Draw renders a list onto dst. The viewport supplies the pixel scale;
// its display size is ignored because dst already bounds the output.
func (r *Renderer) Draw(dst *ebiten.Image, list *drawlist.List, vp stage.Viewport) {
	vertices := list.Vertices()
	indices := list.Indices()
	if len(vertices) == 0 || len(indices) == 0 {
		return
	}
	fx, fy := vp.Factors()

	opts := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
		Filter:         ebiten.FilterLinear,
	}

	var last *ebiten.Image
	offset := 0
	for _, cmd := range list.Commands() {
		if cmd.ElemCount < 1 {
			continue
		}
		idx := indices[offset : offset+cmd.ElemCount]
		offset += cmd.ElemCount

		src := r.texture(cmd.Texture)
		if src != last {
			// Source coordinates depend on the texture, so the pool is
			// reconverted when it changes.
			bounds := src.Bounds()
			r.scratch = r.scratch[:0]
			for _, v := range vertices {
				r.scratch = append(r.scratch, toVertex(v, bounds, fx, fy))
			}
			last = src
		}

		clip := clipBounds(cmd.Clip, dst.Bounds(), fx, fy)
		if clip.Empty() {
			continue
		}
		target := dst.SubImage(clip).(*ebiten.Image)
		target.DrawTriangles(r.scratch, idx, src, opts)
	}
}

// Release frees every image the renderer allocated.
func (r *Renderer) Release() {
	for id, img := range r.textures {
		if id != whiteTexture {
			img.Deallocate()
		}
		delete(r.textures, id)
	}
	r.backing.Deallocate()
	r.backing = nil
}

// toVertex converts one draw list vertex into Ebitengine's layout, with
// UVs mapped into the source image's texel rectangle.
func toVertex(v drawlist.Vertex, src image.Rectangle, fx, fy float32) ebiten.Vertex {
	w := float32(src.Dx())
	h := float32(src.Dy())
	cr, cg, cb, ca := drawlist.UnpackRGBA(v.Col)
	return ebiten.Vertex{
		DstX:   v.Pos[0] * fx,
		DstY:   v.Pos[1] * fy,
		SrcX:   float32(src.Min.X) + v.UV[0]*w,
		SrcY:   float32(src.Min.Y) + v.UV[1]*h,
		ColorR: cr,
		ColorG: cg,
		ColorB: cb,
		ColorA: ca,
	}
}

// clipBounds converts a clip rectangle in display coordinates into a
// pixel rectangle inside the destination bounds.
func clipBounds(c drawlist.Rect, bounds image.Rectangle, fx, fy float32) image.Rectangle {
	r := image.Rect(
		int(c.X*fx), int(c.Y*fy),
		int((c.X+c.W)*fx), int((c.Y+c.H)*fy),
	)
	return r.Intersect(bounds)
}
