package raster

import (
	"softrender/internal/mathutil"
	"softrender/internal/pixbuf"
)

// Program is the programmable part of the pipeline. Implementations are
// called from several goroutines and must not mutate shared state.
type Program interface {
	// VertexShader returns the vertex with Position in clip space.
	VertexShader(v Vertex) Vertex
	// FragmentShader returns the RGBA color of one pixel.
	FragmentShader(varying Vertex) mathutil.Vec4
}

// ShaderProgram transforms by model/view/projection and colors fragments by
// vertex color × lighting × texture.
type ShaderProgram struct {
	Model      mathutil.Mat4
	View       mathutil.Mat4
	Projection mathutil.Mat4

	Texture *pixbuf.Image     // nil samples white
	Light   *DirectionalLight // nil means unlit
}

// NewShaderProgram returns a program with identity matrices.
func NewShaderProgram(tex *pixbuf.Image) *ShaderProgram {
	return &ShaderProgram{
		Model:      mathutil.Mat4Identity(),
		View:       mathutil.Mat4Identity(),
		Projection: mathutil.Mat4Identity(),
		Texture:    tex,
	}
}

// VertexShader moves the position to clip space and the normal to world
// space. TexCoord and Color pass through.
func (p *ShaderProgram) VertexShader(v Vertex) Vertex {
	world := p.Model.MulVec4(v.Position)
	clip := p.Projection.MulVec4(p.View.MulVec4(world))
	return Vertex{
		Position: clip,
		Normal:   p.Model.MulVec4(v.Normal),
		TexCoord: v.TexCoord,
		Color:    v.Color,
	}
}

// FragmentShader returns color × lighting × texture sample.
func (p *ShaderProgram) FragmentShader(varying Vertex) mathutil.Vec4 {
	lighting := 1.0
	if p.Light != nil {
		lighting = p.Light.Shade(varying.Normal)
	}
	return varying.Color.Scale(lighting).Mul(Sample(p.Texture, varying.TexCoord))
}
