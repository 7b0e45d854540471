// Package fontatlas bakes a font face into a single RGBA texture plus
// per-glyph UV rectangles, ready for upload by any backend.
//
// The atlas also carries a small solid white block. Pointing the draw
// list's null texture at it lets shapes and text share one texture
// binding, so an entire UI can render as a single command.
package fontatlas

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"guidraw/pkg/drawlist"
)

// Glyph is one baked character.
type Glyph struct {
	UV0, UV1 [2]float32 // atlas texture coordinates, top left and bottom right
	Size     [2]float32 // quad size in pixels
	Offset   [2]float32 // offset from the pen position to the quad's top left
	Advance  float32
}

// Atlas is a font face rendered into one image.
type Atlas struct {
	Image *image.RGBA

	glyphs     map[rune]Glyph
	lineHeight float32
	texture    drawlist.TextureID
	whiteUV    [2]float32
}

const (
	firstRune = 0x20
	lastRune  = 0x7E
	pad       = 1
)

// Bake renders the printable ASCII range of face into an atlas.
func Bake(face font.Face) *Atlas {
	m := face.Metrics()
	ascent := float32(m.Ascent.Ceil())
	lineHeight := float32((m.Ascent + m.Descent).Ceil())

	type placed struct {
		r      rune
		bounds fixed.Rectangle26_6
		adv    fixed.Int26_6
		rect   image.Rectangle
	}

	width := 256
	for r := rune(firstRune); r <= lastRune; r++ {
		if b, _, ok := face.GlyphBounds(r); ok {
			if w := (b.Max.X - b.Min.X).Ceil() + 2*pad; w > width {
				width = nextPow2(w)
			}
		}
	}

	// First pass: shelf-pack every glyph, plus a white block up front.
	x, y := pad, pad
	whiteRect := image.Rect(x, y, x+2, y+2)
	x += 2 + pad
	rowH := 2

	entries := make([]placed, 0, lastRune-firstRune+1)
	for r := rune(firstRune); r <= lastRune; r++ {
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		w := (b.Max.X - b.Min.X).Ceil()
		h := (b.Max.Y - b.Min.Y).Ceil()
		if x+w+pad > width {
			x = pad
			y += rowH + pad
			rowH = 0
		}
		if h > rowH {
			rowH = h
		}
		entries = append(entries, placed{r, b, adv, image.Rect(x, y, x+w, y+h)})
		x += w + pad
	}
	height := nextPow2(y + rowH + pad)

	// Second pass: rasterize into the final image.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for wy := whiteRect.Min.Y; wy < whiteRect.Max.Y; wy++ {
		for wx := whiteRect.Min.X; wx < whiteRect.Max.X; wx++ {
			img.SetRGBA(wx, wy, color.RGBA{255, 255, 255, 255})
		}
	}

	d := font.Drawer{Dst: img, Src: image.White, Face: face}
	fw, fh := float32(width), float32(height)
	glyphs := make(map[rune]Glyph, len(entries))
	for _, e := range entries {
		d.Dot = fixed.Point26_6{
			X: fixed.I(e.rect.Min.X) - e.bounds.Min.X,
			Y: fixed.I(e.rect.Min.Y) - e.bounds.Min.Y,
		}
		d.DrawString(string(e.r))
		glyphs[e.r] = Glyph{
			UV0:     [2]float32{float32(e.rect.Min.X) / fw, float32(e.rect.Min.Y) / fh},
			UV1:     [2]float32{float32(e.rect.Max.X) / fw, float32(e.rect.Max.Y) / fh},
			Size:    [2]float32{float32(e.rect.Dx()), float32(e.rect.Dy())},
			Offset:  [2]float32{f26(e.bounds.Min.X), ascent + f26(e.bounds.Min.Y)},
			Advance: f26(e.adv),
		}
	}

	return &Atlas{
		Image:      img,
		glyphs:     glyphs,
		lineHeight: lineHeight,
		whiteUV: [2]float32{
			(float32(whiteRect.Min.X) + 1) / fw,
			(float32(whiteRect.Min.Y) + 1) / fh,
		},
	}
}

// BakeDefault bakes the built-in fixed 7x13 face. It cannot fail and
// needs no font file, which makes it the fallback face.
func BakeDefault() *Atlas {
	return Bake(basicfont.Face7x13)
}

// BakeTTF parses TrueType data and bakes it at the given point size.
func BakeTTF(data []byte, size float64) (*Atlas, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer face.Close()
	return Bake(face), nil
}

// Finish records the texture the host uploaded Image under and returns
// the null texture pointing at the atlas's white block.
func (a *Atlas) Finish(tex drawlist.TextureID) drawlist.NullTexture {
	a.texture = tex
	return drawlist.NullTexture{Texture: tex, UV: a.whiteUV}
}

// Texture returns the handle passed to Finish.
func (a *Atlas) Texture() drawlist.TextureID { return a.texture }

// LineHeight returns the vertical advance between lines.
func (a *Atlas) LineHeight() float32 { return a.lineHeight }

// Glyph looks up a baked character.
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	g, ok := a.glyphs[r]
	return g, ok
}

// Measure returns the advance width of a single line of text. Runes
// outside the baked range measure as zero.
func (a *Atlas) Measure(s string) float32 {
	var w float32
	for _, r := range s {
		if g, ok := a.glyphs[r]; ok {
			w += g.Advance
		}
	}
	return w
}

// Draw appends one textured quad per visible glyph. pos is the top left
// of the first line; newlines advance by the line height. Call Finish
// before drawing so the quads carry the atlas texture.
func (a *Atlas) Draw(l *drawlist.List, pos [2]float32, col [4]uint8, s string) {
	penX, penY := pos[0], pos[1]
	for _, r := range s {
		if r == '\n' {
			penX = pos[0]
			penY += a.lineHeight
			continue
		}
		g, ok := a.glyphs[r]
		if !ok {
			continue
		}
		if r != ' ' && g.Size[0] > 0 && g.Size[1] > 0 {
			l.Image(a.texture, drawlist.Rect{
				X: penX + g.Offset[0],
				Y: penY + g.Offset[1],
				W: g.Size[0],
				H: g.Size[1],
			}, g.UV0, g.UV1, col)
		}
		penX += g.Advance
	}
}

func f26(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

func nextPow2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}
