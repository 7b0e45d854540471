package app

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	"golang.org/x/image/font/gofont/goregular"

	"guidraw/internal/assets"
	"guidraw/internal/config"
	"guidraw/internal/renderer"
	"guidraw/pkg/drawlist"
	"guidraw/pkg/fontatlas"
	"guidraw/pkg/stage"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720

	windowTitle = "GUI Viewer"
	fontSize    = 14
)

type App struct {
	window   *glfw.Window
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	renderer *renderer.Renderer
	assets   *assets.Cache
	atlas    *fontatlas.Atlas
	list     *drawlist.List

	logo      drawlist.TextureID
	logoOK    bool
	logoTried bool

	showDemo  bool
	showStats bool
	fps       int
	start     time.Time

	fbWidth, fbHeight int
}

func New() (*App, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("GLFW init failed: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.True)

	window, err := glfw.CreateWindow(DefaultWidth, DefaultHeight, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window creation failed: %w", err)
	}

	cfg := config.Get()
	app := &App{
		window:    window,
		showDemo:  cfg.Features.ShowDemo,
		showStats: cfg.Features.ShowStats,
		start:     time.Now(),
	}
	app.fbWidth, app.fbHeight = window.GetFramebufferSize()

	if err := app.initWebGPU(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	app.renderer, err = renderer.NewRenderer(app.adapter, app.device, app.queue, app.surface,
		uint32(app.fbWidth), uint32(app.fbHeight))
	if err != nil {
		return nil, fmt.Errorf("renderer creation failed: %w", err)
	}

	app.assets, err = assets.NewCache("assets", 4)
	if err != nil {
		return nil, fmt.Errorf("asset cache creation failed: %w", err)
	}
	if err := app.assets.PreloadAll(); err != nil {
		slog.Warn("asset preload failed", "error", err)
	}

	app.atlas, err = fontatlas.BakeTTF(goregular.TTF, fontSize)
	if err != nil {
		slog.Warn("font bake failed, using builtin face", "error", err)
		app.atlas = fontatlas.BakeDefault()
	}
	atlasID, err := app.renderer.RegisterImage(app.atlas.Image)
	if err != nil {
		return nil, fmt.Errorf("font atlas upload failed: %w", err)
	}
	null := app.atlas.Finish(atlasID)

	app.list = drawlist.New(listOptions(null))

	app.setupCallbacks()

	return app, nil
}

// listOptions builds draw list options from the active configuration.
func listOptions(null drawlist.NullTexture) drawlist.Options {
	cfg := config.Get()
	opts := drawlist.DefaultOptions()
	opts.GlobalAlpha = float32(cfg.Rendering.GlobalAlpha)
	opts.LineAA = cfg.Rendering.LineAA
	opts.ShapeAA = cfg.Rendering.ShapeAA
	if cfg.Rendering.CircleSegments > 0 {
		opts.CircleSegments = cfg.Rendering.CircleSegments
		opts.ArcSegments = cfg.Rendering.CircleSegments
		opts.CurveSegments = cfg.Rendering.CircleSegments
	}
	if cfg.Rendering.MaxVertices > 0 {
		opts.MaxVertices = cfg.Rendering.MaxVertices
	}
	if cfg.Rendering.MaxElements > 0 {
		opts.MaxElements = cfg.Rendering.MaxElements
	}
	opts.Null = null
	return opts
}

func (app *App) initWebGPU() error {
	app.instance = wgpu.CreateInstance(&wgpu.InstanceDescriptor{
		Backends: instanceBackends,
	})
	if app.instance == nil {
		return fmt.Errorf("failed to create WebGPU instance")
	}

	// Create surface
	app.surface = CreateSurface(app.instance, app.window)
	if app.surface == nil {
		return fmt.Errorf("surface creation failed")
	}

	// Request adapter - try with surface first, then without
	var err error
	app.adapter, err = app.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface:    app.surface,
		PowerPreference:      wgpu.PowerPreference_HighPerformance,
		ForceFallbackAdapter: false,
	})
	if err != nil {
		// Try without surface constraint
		slog.Info("retrying adapter request without surface constraint")
		app.adapter, err = app.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			PowerPreference: wgpu.PowerPreference_HighPerformance,
		})
		if err != nil {
			return fmt.Errorf("adapter request failed: %w", err)
		}
	}

	props := app.adapter.GetProperties()
	slog.Info("adapter ready", "gpu", props.Name, "driver", props.DriverDescription)

	app.device, err = app.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "GUIViewerDevice",
	})
	if err != nil {
		return fmt.Errorf("device request failed: %w", err)
	}

	app.queue = app.device.GetQueue()
	return nil
}

func (app *App) setupCallbacks() {
	app.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		app.fbWidth = width
		app.fbHeight = height
		app.renderer.Resize(uint32(width), uint32(height))
	})

	app.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		config.AdjustUIScale(yoff * 0.1)
	})

	app.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeySpace:
			app.showDemo = !app.showDemo
		case glfw.KeyS:
			app.showStats = !app.showStats
		case glfw.KeyEqual:
			config.AdjustUIScale(0.1)
		case glfw.KeyMinus:
			config.AdjustUIScale(-0.1)
		}
	})
}

// viewport describes the current framebuffer with the configured UI
// scale applied.
func (app *App) viewport() stage.Viewport {
	s := float32(config.GetUIScale())
	return stage.NewViewport(app.fbWidth, app.fbHeight).WithScaleFactor(s, s)
}

func (app *App) Run() error {
	lastTime := time.Now()
	frames := 0

	for !app.window.ShouldClose() {
		glfw.PollEvents()

		vp := app.viewport()
		app.buildFrame(vp)

		if err := app.renderer.Render(app.list, vp); err != nil {
			slog.Error("render failed", "error", err)
		}

		frames++
		if time.Since(lastTime) >= time.Second {
			app.fps = frames
			app.window.SetTitle(fmt.Sprintf("%s | %d vtx %d cmd | FPS: %d",
				windowTitle, len(app.list.Vertices()), len(app.list.Commands()), frames))
			frames = 0
			lastTime = time.Now()
		}
	}

	return nil
}

func (app *App) Cleanup() {
	if app.renderer != nil {
		app.renderer.Release()
	}
	if app.assets != nil {
		app.assets.Close()
	}
	if app.queue != nil {
		app.queue.Release()
	}
	if app.device != nil {
		app.device.Release()
	}
	if app.adapter != nil {
		app.adapter.Release()
	}
	if app.surface != nil {
		app.surface.Release()
	}
	if app.instance != nil {
		app.instance.Release()
	}
	if app.window != nil {
		app.window.Destroy()
	}
	glfw.Terminate()
}
