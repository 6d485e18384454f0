// Package scene holds the fixed geometry and colours the triangle programs draw.
package scene

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	WindowTitle  = "My Game Engine - Triangle"
	WindowWidth  = 800
	WindowHeight = 600

	VertexCount = 3

	// PositionLocation is the shader input location of the position attribute.
	PositionLocation = 0
)

var (
	ClearColor    = mgl32.Vec4{0.1, 0.1, 0.1, 1.0}
	TriangleColor = mgl32.Vec4{1.0, 0.0, 0.0, 1.0}
)

type Vertex struct {
	Position mgl32.Vec3
}

// Layout describes how one vertex attribute is read out of a tightly packed buffer.
type Layout struct {
	Location   int
	Components int
	Stride     int
	Offset     int
}

var PositionLayout = Layout{
	Location:   PositionLocation,
	Components: 3,
	Stride:     int(unsafe.Sizeof(Vertex{})),
	Offset:     int(unsafe.Offsetof(Vertex{}.Position)),
}

// Triangle returns the three vertices of the demo triangle in normalized device coordinates.
func Triangle() []Vertex {
	return []Vertex{
		{Position: mgl32.Vec3{-0.5, -0.5, 0.0}}, // bottom left
		{Position: mgl32.Vec3{0.5, -0.5, 0.0}},  // bottom right
		{Position: mgl32.Vec3{0.0, 0.5, 0.0}},   // top
	}
}

func Floats(vertices []Vertex) []float32 {
	floats := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		floats = append(floats, v.Position[0], v.Position[1], v.Position[2])
	}

	return floats
}

// Bytes encodes vertices the way the GPU reads them: little-endian float32s, no padding.
func Bytes(vertices []Vertex) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := binary.Write(buf, binary.LittleEndian, vertices)
	if err != nil {
		return nil, errors.Wrap(err, "encode vertices")
	}

	return buf.Bytes(), nil
}

// CheckBufferSize returns an error unless size is exactly layout.Stride * count.
func CheckBufferSize(size int, layout Layout, count int) error {
	if layout.Stride <= 0 {
		return errors.Newf("vertex layout at location %d has stride %d", layout.Location, layout.Stride)
	}
	if layout.Offset+layout.Components*4 > layout.Stride {
		return errors.Newf("attribute at location %d overruns stride %d", layout.Location, layout.Stride)
	}
	if want := layout.Stride * count; size != want {
		return errors.Newf("vertex buffer is %d bytes, want %d (%d vertices x stride %d)", size, want, count, layout.Stride)
	}

	return nil
}
