// Package glsl generates the GLSL ES 1.00 shader pair used for UI
// drawing and describes how its inputs are bound.
//
// Hosts differ only in what they name the attributes and uniforms, so the
// names are configuration: a Profile maps each input role to an
// identifier, and the generated source is otherwise identical. Two naming
// conventions ship as presets; neither is preferred over the other.
package glsl

import (
	"fmt"
	"strings"
)

// Role identifies a shader input independent of the name it is bound
// under.
type Role int

const (
	RolePosition Role = iota
	RoleTexCoord
	RoleColor
	RoleProjection
	RoleTexture
)

func (r Role) String() string {
	switch r {
	case RolePosition:
		return "position"
	case RoleTexCoord:
		return "texcoord"
	case RoleColor:
		return "color"
	case RoleProjection:
		return "projection"
	case RoleTexture:
		return "texture"
	}
	return "unknown"
}

// Profile maps the shader's input roles to bound names. The varying names
// are internal to the program but both stages must agree on them, so they
// are part of the profile too.
type Profile struct {
	Position   string // vec2 attribute
	TexCoord   string // vec2 attribute
	Color      string // vec4 attribute
	Projection string // mat4 uniform
	Texture    string // sampler2D uniform

	UVVarying    string // vec2 passed to the fragment stage
	ColorVarying string // vec4 passed to the fragment stage
}

// Classic returns the capitalized naming convention.
func Classic() Profile {
	return Profile{
		Position:     "Position",
		TexCoord:     "TexCoord",
		Color:        "Color",
		Projection:   "ProjMtx",
		Texture:      "Texture",
		UVVarying:    "Frag_UV",
		ColorVarying: "Frag_Color",
	}
}

// Prefixed returns the a_/u_/v_ naming convention common in GLES code.
func Prefixed() Profile {
	return Profile{
		Position:     "a_position",
		TexCoord:     "a_texcoord",
		Color:        "a_color",
		Projection:   "u_mvp",
		Texture:      "u_texture",
		UVVarying:    "v_texcoord",
		ColorVarying: "v_color",
	}
}

// ProfileNamed looks up a preset by its config name.
func ProfileNamed(name string) (Profile, bool) {
	switch name {
	case "classic":
		return Classic(), true
	case "prefixed":
		return Prefixed(), true
	}
	return Profile{}, false
}

// Validate reports profiles that could not compile: empty or duplicate
// names.
func (p Profile) Validate() error {
	names := []string{
		p.Position, p.TexCoord, p.Color,
		p.Projection, p.Texture,
		p.UVVarying, p.ColorVarying,
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("profile has an empty binding name")
		}
		if seen[n] {
			return fmt.Errorf("profile binds %q twice", n)
		}
		seen[n] = true
	}
	return nil
}

const vertexTemplate = `#version 100
uniform mat4 {proj};
attribute vec2 {pos};
attribute vec2 {uv};
attribute vec4 {col};
varying vec2 {fuv};
varying vec4 {fcol};
void main() {
    {fuv} = {uv};
    {fcol} = {col};
    gl_Position = {proj} * vec4({pos}.xy, 0.0, 1.0);
}
`

const fragmentTemplate = `#version 100
precision mediump float;
uniform sampler2D {tex};
varying vec2 {fuv};
varying vec4 {fcol};
void main() {
    gl_FragColor = {fcol} * texture2D({tex}, {fuv}.st);
}
`

func (p Profile) expand(template string) string {
	return strings.NewReplacer(
		"{pos}", p.Position,
		"{uv}", p.TexCoord,
		"{col}", p.Color,
		"{proj}", p.Projection,
		"{tex}", p.Texture,
		"{fuv}", p.UVVarying,
		"{fcol}", p.ColorVarying,
	).Replace(template)
}

// VertexSource returns the GLSL ES 1.00 vertex shader for the profile.
// The position's Z is hard-coded to zero: UI geometry is flat and overlap
// is resolved by draw order.
func (p Profile) VertexSource() string {
	return p.expand(vertexTemplate)
}

// FragmentSource returns the paired fragment shader: the interpolated
// color multiplied by the sampled texture.
func (p Profile) FragmentSource() string {
	return p.expand(fragmentTemplate)
}

// Binding describes one named input of the program.
type Binding struct {
	Name string
	Role Role
	Type string // GLSL type
}

// Attributes lists the per-vertex inputs in pipeline order.
func (p Profile) Attributes() []Binding {
	return []Binding{
		{p.Position, RolePosition, "vec2"},
		{p.TexCoord, RoleTexCoord, "vec2"},
		{p.Color, RoleColor, "vec4"},
	}
}

// Uniforms lists the per-draw inputs.
func (p Profile) Uniforms() []Binding {
	return []Binding{
		{p.Projection, RoleProjection, "mat4"},
		{p.Texture, RoleTexture, "sampler2D"},
	}
}

// Varyings lists the outputs interpolated for the fragment stage.
func (p Profile) Varyings() []Binding {
	return []Binding{
		{p.UVVarying, RoleTexCoord, "vec2"},
		{p.ColorVarying, RoleColor, "vec4"},
	}
}
