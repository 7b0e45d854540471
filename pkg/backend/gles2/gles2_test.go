package gles2

import (
	"testing"

	gl "github.com/go-gl/gl/v3.1/gles2"

	"guidraw/pkg/drawlist"
)

func TestAttribFormat(t *testing.T) {
	size, xtype, norm := attribFormat(drawlist.FormatFloat32x2)
	if size != 2 || xtype != gl.FLOAT || norm {
		t.Errorf("float32x2 = (%d, %#x, %v), want (2, FLOAT, false)", size, xtype, norm)
	}
	size, xtype, norm = attribFormat(drawlist.FormatUnorm8x4)
	if size != 4 || xtype != gl.UNSIGNED_BYTE || !norm {
		t.Errorf("unorm8x4 = (%d, %#x, %v), want (4, UNSIGNED_BYTE, true)", size, xtype, norm)
	}
}

// Every element of the shared vertex layout must resolve to a program
// location and a pointer format, so the draw loop can be driven by the
// layout alone.
func TestLayoutDrivesAttribSetup(t *testing.T) {
	r := &Renderer{attribPos: 3, attribUV: 1, attribCol: 0}
	want := map[drawlist.Attrib]int32{
		drawlist.AttribPosition: 3,
		drawlist.AttribTexCoord: 1,
		drawlist.AttribColor:    0,
	}
	for _, el := range drawlist.Layout() {
		if got := r.attribLocation(el.Attrib); got != want[el.Attrib] {
			t.Errorf("attrib %d location = %d, want %d", el.Attrib, got, want[el.Attrib])
		}
		if size, _, _ := attribFormat(el.Format); size == 0 {
			t.Errorf("attrib %d has no pointer format", el.Attrib)
		}
	}

	if got := r.attribLocation(drawlist.Attrib(99)); got != -1 {
		t.Errorf("unknown attrib location = %d, want -1", got)
	}
}
