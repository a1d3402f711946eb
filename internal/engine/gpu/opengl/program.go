package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/orrery/internal/engine/gpu"
)

// compileProgram compiles vertex and fragment shaders and links them into a program.
// Failures are reported as *gpu.CompileError naming the failing stage.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, gpu.StageVertex)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, gpu.StageFragment)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return 0, &gpu.CompileError{Stage: gpu.StageLink, Log: log}
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, stage gpu.Stage) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, &gpu.CompileError{Stage: stage, Log: log}
	}

	return shader, nil
}

// infoLog reads a driver info log of logLen bytes, trimming the trailing NUL.
func infoLog(logLen int32, read func(buf *uint8)) string {
	if logLen <= 0 {
		return "(no log)"
	}
	log := make([]byte, logLen)
	read(&log[0])
	if log[len(log)-1] == 0 {
		log = log[:len(log)-1]
	}
	return string(log)
}
