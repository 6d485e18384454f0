package main

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

func TestHandleEventQuits(t *testing.T) {
	app := &TriangleApplication{}

	quit, err := app.handleEvent(&sdl.QuitEvent{Type: sdl.QUIT})
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = app.handleEvent(&sdl.KeyboardEvent{State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}})
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestHandleEventIgnoresOtherKeys(t *testing.T) {
	app := &TriangleApplication{}

	quit, err := app.handleEvent(&sdl.KeyboardEvent{State: sdl.RELEASED, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}})
	require.NoError(t, err)
	assert.False(t, quit)

	quit, err = app.handleEvent(&sdl.KeyboardEvent{State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}})
	require.NoError(t, err)
	assert.False(t, quit)
}

// While minimized the loop blocks on WaitEvent instead of spinning on PollEvent.
func TestHandleEventTracksMinimize(t *testing.T) {
	app := &TriangleApplication{}

	_, err := app.handleEvent(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_MINIMIZED})
	require.NoError(t, err)
	assert.True(t, app.minimized)

	_, err = app.handleEvent(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESTORED})
	require.NoError(t, err)
	assert.False(t, app.minimized)
}

func TestLogToStdout(t *testing.T) {
	defer log.SetOutput(log.Writer())
	log.SetOutput(&bytes.Buffer{})

	logToStdout()
	assert.Equal(t, os.Stdout, log.Writer())
}

func TestDrainDevice(t *testing.T) {
	calls := 0
	err := drainDevice(func() (int, error) {
		calls++
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	lost := errors.New("device lost")
	err = drainDevice(func() (int, error) { return -4, lost })
	require.Error(t, err)
	assert.ErrorIs(t, err, lost)
	assert.Contains(t, err.Error(), "wait for device idle")
}
