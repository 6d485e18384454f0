// Command opengl draws the demo triangle through an OpenGL 3.3 core context.
package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/mygameengine/triangle/config"
	"github.com/mygameengine/triangle/framestats"
	"github.com/mygameengine/triangle/scene"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

type TriangleApplication struct {
	config config.Config
	window *glfw.Window
	stats  *framestats.Counter

	program      uint32
	vertexArray  uint32
	vertexBuffer uint32
}

func (app *TriangleApplication) Run() error {
	defer app.cleanup()

	err := app.initWindow()
	if err != nil {
		return err
	}

	app.createShaderProgram()

	err = app.createVertexBuffer()
	if err != nil {
		return err
	}
	log.Println("triangle ready to render")

	app.mainLoop()
	return nil
}

func (app *TriangleApplication) initWindow() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "initialize glfw")
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if app.config.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	window, err := glfw.CreateWindow(app.config.Width, app.config.Height, app.config.Title, nil, nil)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	app.window = window

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "load opengl functions")
	}
	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if app.config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})

	return nil
}

func (app *TriangleApplication) createVertexBuffer() error {
	vertices := scene.Floats(scene.Triangle())
	bufferSize := len(vertices) * 4
	layout := scene.PositionLayout

	err := scene.CheckBufferSize(bufferSize, layout, scene.VertexCount)
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &app.vertexArray)
	gl.GenBuffers(1, &app.vertexBuffer)

	gl.BindVertexArray(app.vertexArray)

	gl.BindBuffer(gl.ARRAY_BUFFER, app.vertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, bufferSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(uint32(layout.Location), int32(layout.Components), gl.FLOAT, false, int32(layout.Stride), uintptr(layout.Offset))
	gl.EnableVertexAttribArray(uint32(layout.Location))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return nil
}

func (app *TriangleApplication) mainLoop() {
	background := scene.ClearColor

	for !app.window.ShouldClose() {
		if app.window.GetKey(glfw.KeyEscape) == glfw.Press {
			app.window.SetShouldClose(true)
		}

		gl.ClearColor(background[0], background[1], background[2], background[3])
		gl.Clear(gl.COLOR_BUFFER_BIT)

		gl.UseProgram(app.program)
		gl.BindVertexArray(app.vertexArray)
		gl.DrawArrays(gl.TRIANGLES, 0, scene.VertexCount)

		app.window.SwapBuffers()
		glfw.PollEvents()

		if report, ok := app.stats.Tick(); ok {
			log.Printf("frame stats: %s", report)
		}
	}
}

func (app *TriangleApplication) cleanup() {
	if app.vertexArray != 0 {
		gl.DeleteVertexArrays(1, &app.vertexArray)
	}
	if app.vertexBuffer != 0 {
		gl.DeleteBuffers(1, &app.vertexBuffer)
	}
	if app.program != 0 {
		gl.DeleteProgram(app.program)
	}

	if app.window != nil {
		app.window.Destroy()
	}
	glfw.Terminate()
}

func main() {
	log.SetOutput(os.Stdout)

	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	} else if err != nil {
		log.Fatalf("%+v\n", err)
	}

	app := &TriangleApplication{
		config: cfg,
		stats:  framestats.New(cfg.StatsInterval),
	}

	err = app.Run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
