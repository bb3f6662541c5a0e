package glhf

import (
	"runtime"
	"strings"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Shader is a linked vertex + fragment program together with the formats it was built for.
type Shader struct {
	program    binder
	vertexFmt  AttrFormat
	uniformFmt AttrFormat
	uniformLoc []int32
}

// NewShader compiles and links the two sources. The uniform format must name every uniform
// SetUniformAttr is going to be called with.
func NewShader(vertexFmt, uniformFmt AttrFormat, vertexShader, fragmentShader string) (*Shader, error) {
	shader := &Shader{
		program: binder{
			restoreLoc: gl.CURRENT_PROGRAM,
			bindFunc: func(obj uint32) {
				gl.UseProgram(obj)
			},
		},
		vertexFmt:  vertexFmt,
		uniformFmt: uniformFmt,
		uniformLoc: make([]int32, len(uniformFmt)),
	}

	vshader, err := compileShader(gl.VERTEX_SHADER, vertexShader)
	if err != nil {
		return nil, errors.Wrap(err, "error creating shader")
	}
	defer gl.DeleteShader(vshader)

	fshader, err := compileShader(gl.FRAGMENT_SHADER, fragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "error creating shader")
	}
	defer gl.DeleteShader(fshader)

	shader.program.obj = gl.CreateProgram()
	gl.AttachShader(shader.program.obj, vshader)
	gl.AttachShader(shader.program.obj, fshader)
	gl.LinkProgram(shader.program.obj)

	var success int32
	gl.GetProgramiv(shader.program.obj, gl.LINK_STATUS, &success)
	if success == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(shader.program.obj, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetProgramInfoLog(shader.program.obj, logLen, nil, &infoLog[0])
		return nil, errors.Errorf("error linking shader program: %s", strings.TrimRight(string(infoLog), "\x00"))
	}

	for i, uniform := range uniformFmt {
		loc := gl.GetUniformLocation(shader.program.obj, gl.Str(uniform.Name+"\x00"))
		shader.uniformLoc[i] = loc
	}

	runtime.SetFinalizer(shader, (*Shader).delete)

	return shader, nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var success int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &infoLog[0])
		gl.DeleteShader(shader)
		return 0, errors.Errorf("error compiling shader: %s", strings.TrimRight(string(infoLog), "\x00"))
	}
	return shader, nil
}

func (s *Shader) delete() {
	mainthread.CallNonBlock(func() {
		gl.DeleteProgram(s.program.obj)
	})
}

func (s *Shader) ID() uint32 {
	return s.program.obj
}

func (s *Shader) VertexFormat() AttrFormat {
	return s.vertexFmt
}

func (s *Shader) UniformFormat() AttrFormat {
	return s.uniformFmt
}

// SetUniformAttr sets the uniform at index uniform of the uniform format. The shader must be
// bound. It returns false if the value does not match the declared type.
func (s *Shader) SetUniformAttr(uniform int, value interface{}) bool {
	if s.uniformLoc[uniform] < 0 {
		return false
	}

	if !uniformMatches(s.uniformFmt[uniform].Type, value) {
		return false
	}

	loc := s.uniformLoc[uniform]
	switch value := value.(type) {
	case int32:
		gl.Uniform1iv(loc, 1, &value)
	case float32:
		gl.Uniform1fv(loc, 1, &value)
	case mgl32.Vec2:
		gl.Uniform2fv(loc, 1, &value[0])
	case mgl32.Vec3:
		gl.Uniform3fv(loc, 1, &value[0])
	case mgl32.Vec4:
		gl.Uniform4fv(loc, 1, &value[0])
	case mgl32.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	}
	return true
}

// uniformMatches reports whether value has the Go type that carries attribute type t.
func uniformMatches(t AttrType, value interface{}) bool {
	switch value.(type) {
	case int32:
		return t == Int
	case float32:
		return t == Float
	case mgl32.Vec2:
		return t == Vec2
	case mgl32.Vec3:
		return t == Vec3
	case mgl32.Vec4:
		return t == Vec4
	case mgl32.Mat4:
		return t == Mat4
	}
	return false
}

// Begin binds the shader program.
func (s *Shader) Begin() {
	s.program.bind()
}

// End unbinds the shader program and restores the previous one.
func (s *Shader) End() {
	s.program.restore()
}
