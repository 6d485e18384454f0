// Package shaders holds the fixed shader pair drawn by both triangle programs
// and compiles the WGSL variant to SPIR-V for Vulkan.
//
// The GLSL and WGSL sources describe the same pipeline: position is read from
// attribute location 0 and passed straight through, and every fragment is
// written solid red.
package shaders

const VertexGLSL = `#version 330 core
layout (location = 0) in vec3 aPos;

void main()
{
    gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}
` + "\x00"

const FragmentGLSL = `#version 330 core
out vec4 FragColor;

void main()
{
    FragColor = vec4(1.0, 0.0, 0.0, 1.0);
}
` + "\x00"

const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// VertexWGSL flips Y so the triangle lands where the GL program draws it;
// Vulkan clip space points Y down.
const VertexWGSL = `
@vertex
fn vs_main(@location(0) pos: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos.x, -pos.y, pos.z, 1.0);
}
`

const FragmentWGSL = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`
