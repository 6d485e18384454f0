package shaders

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygameengine/triangle/scene"
)

type recorder struct {
	lines []string
}

func (r *recorder) Printf(format string, v ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

func TestBytesToBytecode(t *testing.T) {
	code := BytesToBytecode([]byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00, 0xff})
	assert.Equal(t, []uint32{0x07230203, 1}, code)
}

func TestCompileSPIRV(t *testing.T) {
	for name, source := range map[string]string{
		"vertex":   VertexWGSL,
		"fragment": FragmentWGSL,
	} {
		t.Run(name, func(t *testing.T) {
			code, err := CompileSPIRV(source)
			require.NoError(t, err)
			require.NotEmpty(t, code)
			assert.Equal(t, uint32(spirvMagic), code[0])
		})
	}
}

func TestCompileSPIRVRejectsGarbage(t *testing.T) {
	_, err := CompileSPIRV("this is not wgsl {")
	assert.Error(t, err)
}

func TestCompilePair(t *testing.T) {
	pair, err := CompilePair(context.Background(), VertexWGSL, FragmentWGSL)
	require.NoError(t, err)
	assert.True(t, pair.Vertex.OK())
	assert.True(t, pair.Fragment.OK())

	logs := &recorder{}
	assert.True(t, pair.Log(logs))
	assert.Empty(t, logs.lines)
}

func TestCompilePairKeepsBothDiagnostics(t *testing.T) {
	pair, err := CompilePair(context.Background(), "broken vertex", "broken fragment")
	require.NoError(t, err)
	assert.False(t, pair.Vertex.OK())
	assert.False(t, pair.Fragment.OK())

	logs := &recorder{}
	assert.False(t, pair.Log(logs))
	require.Len(t, logs.lines, 2)
	assert.True(t, strings.HasPrefix(logs.lines[0], "vertex shader compile failed:\n"))
	assert.True(t, strings.HasPrefix(logs.lines[1], "fragment shader compile failed:\n"))
}

func TestCompilePairOneBrokenStage(t *testing.T) {
	pair, err := CompilePair(context.Background(), VertexWGSL, "fn nope(")
	require.NoError(t, err)
	assert.True(t, pair.Vertex.OK())
	assert.False(t, pair.Fragment.OK())

	logs := &recorder{}
	assert.False(t, pair.Log(logs))
	assert.Len(t, logs.lines, 1)
}

func TestCompilePairCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pair, err := CompilePair(ctx, VertexWGSL, FragmentWGSL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, pair.Vertex.OK())
	assert.False(t, pair.Fragment.OK())
}

func TestTruncateLog(t *testing.T) {
	assert.Equal(t, "short", TruncateLog("short"))
	assert.Len(t, TruncateLog(strings.Repeat("x", 2000)), InfoLogLimit)
}

func TestGLSLSourcesAreNulTerminated(t *testing.T) {
	for _, source := range []string{VertexGLSL, FragmentGLSL} {
		assert.True(t, strings.HasSuffix(source, "\x00"))
		assert.True(t, strings.HasPrefix(source, "#version 330 core\n"))
	}
}

func TestFragmentSourcesWriteTriangleColor(t *testing.T) {
	c := scene.TriangleColor
	glsl := fmt.Sprintf("vec4(%.1f, %.1f, %.1f, %.1f)", c[0], c[1], c[2], c[3])
	wgsl := fmt.Sprintf("vec4<f32>(%.1f, %.1f, %.1f, %.1f)", c[0], c[1], c[2], c[3])

	assert.Contains(t, FragmentGLSL, glsl)
	assert.Contains(t, FragmentWGSL, wgsl)
}
