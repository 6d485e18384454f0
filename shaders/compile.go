package shaders

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/naga"
	"golang.org/x/sync/errgroup"
)

// InfoLogLimit caps how much of a compiler or linker diagnostic gets logged.
const InfoLogLimit = 512

const spirvMagic = 0x07230203

type Printer interface {
	Printf(format string, v ...any)
}

func BytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}

// CompileSPIRV compiles WGSL source into SPIR-V words.
func CompileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, errors.Wrap(err, "compile wgsl")
	}

	if len(spirvBytes) < 4 || len(spirvBytes)%4 != 0 {
		return nil, errors.Newf("compile wgsl: spir-v output is %d bytes, not a whole number of words", len(spirvBytes))
	}

	code := BytesToBytecode(spirvBytes)
	if code[0] != spirvMagic {
		return nil, errors.Newf("compile wgsl: invalid spir-v magic 0x%08x", code[0])
	}

	return code, nil
}

// TruncateLog cuts a diagnostic to InfoLogLimit bytes.
func TruncateLog(infoLog string) string {
	if len(infoLog) > InfoLogLimit {
		return infoLog[:InfoLogLimit]
	}
	return infoLog
}

type Stage struct {
	Name string
	Code []uint32
	Err  error
}

func (s Stage) OK() bool {
	return s.Err == nil && len(s.Code) > 0
}

type Pair struct {
	Vertex   Stage
	Fragment Stage
}

// CompilePair compiles both stages side by side. A stage failure is kept on
// its Stage and never cancels the other stage, so both diagnostics are
// available. The returned error is only set when ctx ends before a stage ran.
func CompilePair(ctx context.Context, vertexSource, fragmentSource string) (Pair, error) {
	pair := Pair{
		Vertex:   Stage{Name: "vertex"},
		Fragment: Stage{Name: "fragment"},
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, job := range []struct {
		stage  *Stage
		source string
	}{
		{&pair.Vertex, vertexSource},
		{&pair.Fragment, fragmentSource},
	} {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "compile %s shader", job.stage.Name)
			}
			job.stage.Code, job.stage.Err = CompileSPIRV(job.source)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return pair, err
	}
	return pair, nil
}

// Log writes one entry per failed stage and reports whether both compiled.
func (p Pair) Log(logger Printer) bool {
	ok := true
	for _, stage := range []Stage{p.Vertex, p.Fragment} {
		if stage.OK() {
			continue
		}

		ok = false
		message := "no code produced"
		if stage.Err != nil {
			message = stage.Err.Error()
		}
		logger.Printf("%s shader compile failed:\n%s", stage.Name, TruncateLog(message))
	}

	return ok
}
