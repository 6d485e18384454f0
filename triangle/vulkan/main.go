// Command vulkan draws the demo triangle through Vulkan, with an SDL2 window
// and shaders compiled from WGSL at startup.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/mygameengine/triangle/config"
	"github.com/mygameengine/triangle/framestats"
	"github.com/mygameengine/triangle/shaders"
)

const MaxFramesInFlight = 2

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}

// frameSync paces one frame in flight. Per-image state lives on renderTarget.
type frameSync struct {
	imageAvailable core1_0.Semaphore
	inFlight       core1_0.Fence
}

type TriangleApplication struct {
	config    config.Config
	window    *sdl.Window
	stats     *framestats.Counter
	shaders   shaders.Pair
	minimized bool

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	deviceDriver   core1_0.CoreDeviceDriver

	debugDriver     ext_debug_utils.ExtensionDriver
	debugMessenger  ext_debug_utils.DebugUtilsMessenger
	surfaceDriver   khr_surface.ExtensionDriver
	surface         khr_surface.Surface
	swapchainDriver khr_swapchain.ExtensionDriver

	physicalDevice   core1_0.PhysicalDevice
	families         queueFamilies
	deviceExtensions []string
	graphicsQueue    core1_0.Queue
	presentQueue     core1_0.Queue

	commandPool  core1_0.CommandPool
	vertexBuffer core1_0.Buffer
	vertexMemory core1_0.DeviceMemory

	target       *renderTarget
	frames       [MaxFramesInFlight]frameSync
	currentFrame int
}

func (app *TriangleApplication) Run() error {
	defer app.cleanup()

	err := app.initWindow()
	if err != nil {
		return err
	}

	err = app.initVulkan()
	if err != nil {
		return err
	}

	return app.mainLoop()
}

func (app *TriangleApplication) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "initialize sdl")
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_VULKAN)
	if app.config.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}

	window, err := sdl.CreateWindow(app.config.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(app.config.Width), int32(app.config.Height), flags)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	app.window = window

	app.globalDriver, err = core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return errors.Wrap(err, "load vulkan functions")
	}

	return nil
}

func (app *TriangleApplication) initVulkan() error {
	var err error
	app.shaders, err = shaders.CompilePair(context.Background(), shaders.VertexWGSL, shaders.FragmentWGSL)
	if err != nil {
		return err
	}
	app.shaders.Log(log.Default())

	for _, step := range []func() error{
		app.createInstance,
		app.setupDebugMessenger,
		app.createSurface,
		app.pickPhysicalDevice,
		app.createLogicalDevice,
		app.uploadVertices,
		app.createFrameSync,
		app.buildTarget,
	} {
		if err := step(); err != nil {
			return err
		}
	}

	log.Println("triangle ready to render")
	return nil
}

// mainLoop draws until the window closes or Escape is pressed. While
// minimized it blocks on the event queue instead of drawing.
func (app *TriangleApplication) mainLoop() error {
	for {
		for event := nextEvent(app.minimized); event != nil; event = sdl.PollEvent() {
			quit, err := app.handleEvent(event)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}

		if app.minimized {
			continue
		}

		err := app.drawFrame()
		if err != nil {
			return err
		}

		if report, ok := app.stats.Tick(); ok {
			log.Printf("frame stats: %s", report)
		}
	}
}

func nextEvent(block bool) sdl.Event {
	if block {
		return sdl.WaitEvent()
	}
	return sdl.PollEvent()
}

// handleEvent reports whether the program should exit.
func (app *TriangleApplication) handleEvent(event sdl.Event) (bool, error) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return true, nil
	case *sdl.KeyboardEvent:
		return e.Keysym.Sym == sdl.K_ESCAPE && e.State == sdl.PRESSED, nil
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_MINIMIZED:
			app.minimized = true
		case sdl.WINDOWEVENT_RESTORED:
			app.minimized = false
		case sdl.WINDOWEVENT_RESIZED:
			return false, app.rebuildTarget()
		}
	}
	return false, nil
}

// drainDevice waits for the queues to finish with everything submitted so far.
func drainDevice[R any](waitIdle func() (R, error)) error {
	_, err := waitIdle()
	return errors.Wrap(err, "wait for device idle")
}

func (app *TriangleApplication) cleanup() {
	if app.deviceDriver != nil {
		if err := drainDevice(app.deviceDriver.DeviceWaitIdle); err != nil {
			log.Printf("%+v", err)
		}

		app.destroyTarget()

		for _, frame := range app.frames {
			if frame.inFlight.Initialized() {
				app.deviceDriver.DestroyFence(frame.inFlight, nil)
			}
			if frame.imageAvailable.Initialized() {
				app.deviceDriver.DestroySemaphore(frame.imageAvailable, nil)
			}
		}

		if app.vertexBuffer.Initialized() {
			app.deviceDriver.DestroyBuffer(app.vertexBuffer, nil)
		}
		if app.vertexMemory.Initialized() {
			app.deviceDriver.FreeMemory(app.vertexMemory, nil)
		}
		if app.commandPool.Initialized() {
			app.deviceDriver.DestroyCommandPool(app.commandPool, nil)
		}

		app.deviceDriver.DestroyDevice(nil)
	}

	if app.debugMessenger.Initialized() {
		app.debugDriver.DestroyDebugUtilsMessenger(app.debugMessenger, nil)
	}

	if app.surface.Initialized() {
		app.surfaceDriver.DestroySurface(app.surface, nil)
	}

	if app.instanceDriver != nil {
		app.instanceDriver.DestroyInstance(nil)
	}

	if app.window != nil {
		app.window.Destroy()
	}
	sdl.Quit()
}

// logToStdout sends every log line, shader diagnostics included, to standard output.
func logToStdout() {
	log.SetOutput(os.Stdout)
}

func main() {
	runtime.LockOSThread()
	logToStdout()

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
