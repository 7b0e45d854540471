// Package gles2 renders draw lists through OpenGL ES 2.
//
// All methods must run on the thread that owns the GL context. The
// renderer keeps one shader program, compiled from a binding profile, and
// streams each frame's geometry through a shared vertex and index buffer.
package gles2

import (
	"fmt"
	"image"
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"

	"guidraw/pkg/drawlist"
	"guidraw/pkg/glsl"
	"guidraw/pkg/stage"
)

// Init loads the GL function pointers. Call once after making a context
// current and before New.
func Init() error {
	return gl.Init()
}

// Renderer owns the GL objects used for draw list rendering.
type Renderer struct {
	prog       uint32
	vertShader uint32
	fragShader uint32
	vbo, ebo   uint32

	attribPos   int32
	attribUV    int32
	attribCol   int32
	uniformTex  int32
	uniformProj int32

	textures []uint32
}

// New compiles the shader pair for the given profile and allocates the
// stream buffers. Compile and link failures return the driver's info log.
func New(profile glsl.Profile) (*Renderer, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{}
	var err error
	r.vertShader, err = compileShader(gl.VERTEX_SHADER, profile.VertexSource())
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	r.fragShader, err = compileShader(gl.FRAGMENT_SHADER, profile.FragmentSource())
	if err != nil {
		gl.DeleteShader(r.vertShader)
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	r.prog, err = linkProgram(r.vertShader, r.fragShader)
	if err != nil {
		gl.DeleteShader(r.vertShader)
		gl.DeleteShader(r.fragShader)
		return nil, err
	}

	// Missing names come back as -1 and are skipped at draw time.
	r.uniformTex = gl.GetUniformLocation(r.prog, gl.Str(profile.Texture+"\x00"))
	r.uniformProj = gl.GetUniformLocation(r.prog, gl.Str(profile.Projection+"\x00"))
	r.attribPos = gl.GetAttribLocation(r.prog, gl.Str(profile.Position+"\x00"))
	r.attribUV = gl.GetAttribLocation(r.prog, gl.Str(profile.TexCoord+"\x00"))
	r.attribCol = gl.GetAttribLocation(r.prog, gl.Str(profile.Color+"\x00"))

	var bufs [2]uint32
	gl.GenBuffers(2, &bufs[0])
	r.vbo, r.ebo = bufs[0], bufs[1]

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return r, nil
}

func compileShader(kind uint32, src string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func linkProgram(vert, frag uint32) (uint32, error) {
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen)+1)
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

// AddTexture uploads an RGBA image with linear filtering and returns its
// handle. Used for font atlases and UI images alike.
func (r *Renderer) AddTexture(img *image.RGBA) drawlist.TextureID {
	b := img.Bounds()
	pix := img.Pix
	if img.Stride != b.Dx()*4 {
		// Repack: GL ES 2 has no row stride parameter.
		pix = make([]uint8, b.Dx()*b.Dy()*4)
		for y := 0; y < b.Dy(); y++ {
			copy(pix[y*b.Dx()*4:(y+1)*b.Dx()*4], img.Pix[y*img.Stride:y*img.Stride+b.Dx()*4])
		}
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.textures = append(r.textures, tex)
	return drawlist.TextureID(tex)
}

// Draw renders a list. GL state is set up for UI drawing (alpha blend,
// scissor on, cull and depth off) and switched back for a 3D host
// afterwards.
func (r *Renderer) Draw(list *drawlist.List, vp stage.Viewport) {
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.ActiveTexture(gl.TEXTURE0)

	gl.UseProgram(r.prog)
	gl.Uniform1i(r.uniformTex, 0)
	mvp := vp.Ortho()
	gl.UniformMatrix4fv(r.uniformProj, 1, false, &mvp[0])

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	stride := int32(drawlist.VertexSize)
	for _, el := range drawlist.Layout() {
		attr := r.attribLocation(el.Attrib)
		if attr < 0 {
			continue
		}
		size, xtype, norm := attribFormat(el.Format)
		gl.EnableVertexAttribArray(uint32(attr))
		gl.VertexAttribPointerWithOffset(uint32(attr), size, xtype, norm, stride, uintptr(el.Offset))
	}

	vertices := list.Vertices()
	indices := list.Indices()
	if len(vertices) > 0 && len(indices) > 0 {
		// Orphan both buffers, then stream the frame's data.
		vbytes := len(vertices) * drawlist.VertexSize
		ebytes := len(indices) * 2
		gl.BufferData(gl.ARRAY_BUFFER, vbytes, nil, gl.STREAM_DRAW)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, ebytes, nil, gl.STREAM_DRAW)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, vbytes, gl.Ptr(vertices))
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, ebytes, gl.Ptr(indices))

		offset := 0
		for _, cmd := range list.Commands() {
			if cmd.ElemCount < 1 {
				continue
			}
			first := offset
			offset += cmd.ElemCount
			sx, sy, sw, sh := vp.Scissor(cmd.Clip.X, cmd.Clip.Y, cmd.Clip.W, cmd.Clip.H)
			if sw <= 0 || sh <= 0 {
				// A disjoint clip intersect comes through with negative
				// size; gl.Scissor would reject it and keep the previous
				// rectangle.
				continue
			}
			gl.Scissor(sx, sy, sw, sh)
			gl.BindTexture(gl.TEXTURE_2D, uint32(cmd.Texture))
			gl.DrawElementsWithOffset(gl.TRIANGLES, int32(cmd.ElemCount), gl.UNSIGNED_SHORT, uintptr(first*2))
		}
	}

	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.SCISSOR_TEST)
}

// attribLocation returns the program location bound to a layout attribute,
// or -1 when the profile name was not found in the program.
func (r *Renderer) attribLocation(a drawlist.Attrib) int32 {
	switch a {
	case drawlist.AttribPosition:
		return r.attribPos
	case drawlist.AttribTexCoord:
		return r.attribUV
	case drawlist.AttribColor:
		return r.attribCol
	}
	return -1
}

// attribFormat maps a layout format onto GL pointer parameters.
func attribFormat(f drawlist.Format) (size int32, xtype uint32, normalized bool) {
	switch f {
	case drawlist.FormatFloat32x2:
		return 2, gl.FLOAT, false
	case drawlist.FormatUnorm8x4:
		return 4, gl.UNSIGNED_BYTE, true
	}
	return 0, 0, false
}

// Release deletes every GL object the renderer created.
func (r *Renderer) Release() {
	for _, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
	}
	r.textures = nil

	var bufs = [2]uint32{r.vbo, r.ebo}
	gl.DeleteBuffers(2, &bufs[0])
	gl.DeleteShader(r.vertShader)
	gl.DeleteShader(r.fragShader)
	gl.DeleteProgram(r.prog)
}
