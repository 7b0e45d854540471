package fontatlas

import (
	"image/color"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"guidraw/pkg/drawlist"
)

func TestBakeDefaultCoversASCII(t *testing.T) {
	a := BakeDefault()
	for r := rune(0x20); r <= 0x7E; r++ {
		g, ok := a.Glyph(r)
		if !ok {
			t.Fatalf("glyph %q missing from the atlas", r)
		}
		if g.Advance <= 0 {
			t.Errorf("glyph %q advance = %v, want positive", r, g.Advance)
		}
	}
	if _, ok := a.Glyph('é'); ok {
		t.Error("rune outside the baked range reported present")
	}
}

func TestGlyphUVsWithinAtlas(t *testing.T) {
	a := BakeDefault()
	for r := rune('!'); r <= '~'; r++ {
		g, _ := a.Glyph(r)
		for i := 0; i < 2; i++ {
			if g.UV0[i] < 0 || g.UV0[i] > 1 || g.UV1[i] < 0 || g.UV1[i] > 1 {
				t.Fatalf("glyph %q UVs outside [0,1]: %v..%v", r, g.UV0, g.UV1)
			}
			if g.UV0[i] > g.UV1[i] {
				t.Fatalf("glyph %q UVs inverted: %v..%v", r, g.UV0, g.UV1)
			}
		}
	}
}

func TestLineHeightAndMeasure(t *testing.T) {
	a := BakeDefault()
	// The fixed face is 7x13.
	if a.LineHeight() != 13 {
		t.Errorf("LineHeight = %v, want 13", a.LineHeight())
	}
	if got := a.Measure("AB"); got != 14 {
		t.Errorf(`Measure("AB") = %v, want 14`, got)
	}
	if got := a.Measure(""); got != 0 {
		t.Errorf("Measure of empty string = %v, want 0", got)
	}
}

func TestWhiteBlock(t *testing.T) {
	a := BakeDefault()
	null := a.Finish(drawlist.TextureID(3))
	if null.Texture != 3 {
		t.Errorf("null texture handle = %d, want 3", null.Texture)
	}

	b := a.Image.Bounds()
	px := int(null.UV[0] * float32(b.Dx()))
	py := int(null.UV[1] * float32(b.Dy()))
	if got := a.Image.RGBAAt(px, py); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel under the null UV = %v, want opaque white", got)
	}
}

func TestDrawAppendsQuads(t *testing.T) {
	a := BakeDefault()
	a.Finish(drawlist.TextureID(5))

	l := drawlist.New(drawlist.DefaultOptions())
	a.Draw(l, [2]float32{10, 20}, drawlist.White, "Hi")

	if got := len(l.Vertices()); got != 8 {
		t.Errorf("vertices = %d, want 8 for two glyphs", got)
	}
	if got := len(l.Indices()); got != 12 {
		t.Errorf("indices = %d, want 12", got)
	}
	cmds := l.Commands()
	if len(cmds) != 1 || cmds[0].Texture != 5 {
		t.Fatalf("commands = %+v, want one on texture 5", cmds)
	}

	// Spaces advance the pen without emitting geometry.
	l.Reset()
	a.Draw(l, [2]float32{0, 0}, drawlist.White, "a b")
	if got := len(l.Vertices()); got != 8 {
		t.Errorf("vertices = %d, want 8 (space draws nothing)", got)
	}
	second := l.Vertices()[4]
	if second.Pos[0] < 14 {
		t.Errorf("glyph after space starts at x=%v, want at least two advances", second.Pos[0])
	}
}

func TestDrawNewline(t *testing.T) {
	a := BakeDefault()
	a.Finish(drawlist.TextureID(1))

	l := drawlist.New(drawlist.DefaultOptions())
	a.Draw(l, [2]float32{0, 0}, drawlist.White, "a\nb")

	verts := l.Vertices()
	if len(verts) != 8 {
		t.Fatalf("vertices = %d, want 8", len(verts))
	}
	if got, want := verts[4].Pos[1], verts[0].Pos[1]+13; got != want {
		t.Errorf("second line starts at y=%v, want %v", got, want)
	}
	if verts[4].Pos[0] != verts[0].Pos[0] {
		t.Errorf("newline did not return the pen to the left margin")
	}
}

func TestBakeTTF(t *testing.T) {
	a, err := BakeTTF(goregular.TTF, 13)
	if err != nil {
		t.Fatalf("BakeTTF: %v", err)
	}
	g, ok := a.Glyph('A')
	if !ok {
		t.Fatal("TTF atlas missing 'A'")
	}
	if g.Advance <= 0 || g.Size[0] <= 0 {
		t.Errorf("TTF glyph metrics = %+v, want positive", g)
	}
	if a.LineHeight() <= 0 {
		t.Errorf("LineHeight = %v, want positive", a.LineHeight())
	}

	if _, err := BakeTTF([]byte("not a font"), 13); err == nil {
		t.Error("garbage TTF data did not error")
	}
}
