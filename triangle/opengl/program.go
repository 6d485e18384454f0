package main

import (
	"log"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/mygameengine/triangle/shaders"
)

func infoLog(length int32, read func(int32, *uint8)) string {
	if length <= 0 {
		return ""
	}
	buf := strings.Repeat("\x00", int(length+1))
	read(length, gl.Str(buf))
	return shaders.TruncateLog(strings.TrimRight(buf, "\x00"))
}

// compileShader returns the shader object even when compilation fails, so the
// caller can keep going with a program that simply draws nothing.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		message := infoLog(logLength, func(n int32, dst *uint8) {
			gl.GetShaderInfoLog(shader, n, nil, dst)
		})
		return shader, errors.Newf("compile failed:\n%s", message)
	}

	return shader, nil
}

// linkProgram links the two stages and deletes them; the program keeps what it needs.
func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		message := infoLog(logLength, func(n int32, dst *uint8) {
			gl.GetProgramInfoLog(program, n, nil, dst)
		})
		return program, errors.Newf("link failed:\n%s", message)
	}

	return program, nil
}

func (app *TriangleApplication) createShaderProgram() {
	vertexShader, err := compileShader(shaders.VertexGLSL, gl.VERTEX_SHADER)
	if err != nil {
		log.Printf("vertex shader %v", err)
	}

	fragmentShader, err := compileShader(shaders.FragmentGLSL, gl.FRAGMENT_SHADER)
	if err != nil {
		log.Printf("fragment shader %v", err)
	}

	app.program, err = linkProgram(vertexShader, fragmentShader)
	if err != nil {
		log.Printf("shader program %v", err)
	}
}
