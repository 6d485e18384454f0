package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangle(t *testing.T) {
	vertices := Triangle()
	require.Len(t, vertices, VertexCount)

	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, 0}, vertices[0].Position)
	assert.Equal(t, mgl32.Vec3{0.5, -0.5, 0}, vertices[1].Position)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, vertices[2].Position)
}

func TestTriangleIsFreshCopy(t *testing.T) {
	a := Triangle()
	a[0].Position[0] = 42

	assert.Equal(t, float32(-0.5), Triangle()[0].Position[0])
}

func TestPositionLayout(t *testing.T) {
	assert.Equal(t, 0, PositionLayout.Location)
	assert.Equal(t, 3, PositionLayout.Components)
	assert.Equal(t, 12, PositionLayout.Stride)
	assert.Equal(t, 0, PositionLayout.Offset)
}

func TestFloats(t *testing.T) {
	assert.Equal(t, []float32{
		-0.5, -0.5, 0.0,
		0.5, -0.5, 0.0,
		0.0, 0.5, 0.0,
	}, Floats(Triangle()))
}

func TestBytes(t *testing.T) {
	b, err := Bytes(Triangle())
	require.NoError(t, err)
	require.Len(t, b, 36)
	require.NoError(t, CheckBufferSize(len(b), PositionLayout, VertexCount))

	floats := Floats(Triangle())
	for i, f := range floats {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		assert.Equal(t, f, got, "float %d", i)
	}
}

func TestCheckBufferSize(t *testing.T) {
	assert.NoError(t, CheckBufferSize(36, PositionLayout, 3))
	assert.Error(t, CheckBufferSize(32, PositionLayout, 3))
	assert.Error(t, CheckBufferSize(48, PositionLayout, 3))
	assert.Error(t, CheckBufferSize(0, Layout{Components: 3}, 0))
	assert.Error(t, CheckBufferSize(24, Layout{Components: 3, Stride: 8}, 3))
}

func TestColors(t *testing.T) {
	assert.Equal(t, mgl32.Vec4{0.1, 0.1, 0.1, 1}, ClearColor)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, TriangleColor)
}
