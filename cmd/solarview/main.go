package main

import (
	"math"
	"runtime"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/joho/godotenv"
	"github.com/loov/hrtime"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	vk "github.com/vulkan-go/vulkan"

	"github.com/TylerAlbaz/SolarFramework/api"
	"github.com/TylerAlbaz/SolarFramework/core"
	"github.com/TylerAlbaz/SolarFramework/render"
)

func init() {
	runtime.LockOSThread()
}

// vulkanWindow adapts an SDL window to the renderer's window capability.
type vulkanWindow struct {
	window *sdl.Window
}

func (w *vulkanWindow) InstanceProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (w *vulkanWindow) InstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

func (w *vulkanWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surface, err := w.window.VulkanCreateSurface(instance)
	if err != nil {
		return vk.NullSurface, err
	}
	return vk.SurfaceFromPointer(uintptr(surface)), nil
}

func (w *vulkanWindow) DrawableExtent() (uint32, uint32) {
	width, height := w.window.VulkanGetDrawableSize()
	if width < 0 || height < 0 {
		return 0, 0
	}
	return uint32(width), uint32(height)
}

func loadShaders(cfg core.RendererConfiguration) (render.ShaderSet, error) {
	if cfg.ShaderArchive != "" {
		return render.LoadShaderSetArchive(cfg.ShaderArchive)
	}
	return render.LoadShaderSet(cfg.ShaderDirectory)
}

// starburst emits spokes rotating about the screen centre, in normalised
// device coordinates.
func starburst(spokes int, phase float64) []float32 {
	verts := make([]float32, 0, spokes*2*3)
	for i := 0; i < spokes; i++ {
		angle := phase + float64(i)/float64(spokes)*2*math.Pi
		verts = append(verts,
			0, 0, 0,
			float32(0.9*math.Cos(angle)), float32(0.9*math.Sin(angle)), 0,
		)
	}
	return verts
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using process environment")
	}
	configuration := core.FromEnv()
	if configuration.Renderer.Validation {
		log.SetLevel(log.DebugLevel)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Fatal(err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.Fatal(err)
	}
	defer sdl.VulkanUnloadLibrary()

	sdlWindow, err := sdl.CreateWindow(configuration.Renderer.AppName,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(configuration.Renderer.ScreenWidth),
		int32(configuration.Renderer.ScreenHeight),
		sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		log.Fatal(err)
	}
	defer sdlWindow.Destroy()

	shaders, err := loadShaders(configuration.Renderer)
	if err != nil {
		log.Fatal(err)
	}

	table, err := api.New(api.Version, api.WithLogger(log.StandardLogger()))
	if err != nil {
		log.Fatal(err)
	}

	device, err := table.CreateDevice(render.Config{
		Window:       &vulkanWindow{window: sdlWindow},
		Width:        configuration.Renderer.ScreenWidth,
		Height:       configuration.Renderer.ScreenHeight,
		Validation:   configuration.Renderer.Validation,
		VSync:        configuration.Renderer.VSync,
		Shaders:      shaders,
		StagingBytes: configuration.Renderer.StagingBytes,
		AppName:      configuration.Renderer.AppName,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := table.DestroyDevice(device); err != nil {
			log.Error(err)
		}
	}()

	// The pipeline draws in normalised device coordinates; the camera is
	// stored for the world-space path.
	var view mgl64.Mat3x4
	view[0], view[4], view[8] = 1, 1, 1
	aspect := float64(configuration.Renderer.ScreenWidth) / float64(configuration.Renderer.ScreenHeight)
	if err := table.SetCamera(device,
		view,
		mgl64.Perspective(mgl64.DegToRad(45), aspect, 0.1, 100),
		mgl64.Vec3{}); err != nil {
		log.Fatal(err)
	}

	clear := render.Color{0.01, 0.01, 0.03, 1}
	lineColor := render.Color{0.35, 0.8, 1, 1}

	times := core.NewTime(configuration.Time)
	defer times.Stop()
	start := hrtime.Now()
	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-times.EventTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.WindowEvent:
					if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
						if err := table.Resize(device, uint32(et.Data1), uint32(et.Data2)); err != nil {
							log.Error(err)
						}
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}
		case <-times.FpsTicker().C:
			if err := drawFrame(table, device, clear, lineColor, (hrtime.Now() - start).Seconds()); err != nil {
				log.Error(err)
				exitC <- struct{}{}
			}
		}
	}
}

// drawFrame runs one full frame cycle. Transient failures during resize
// and minimisation are expected and retried next tick.
func drawFrame(table *api.API, device api.Handle, clear, lineColor render.Color, elapsed float64) error {
	if err := table.BeginFrame(device, clear); err != nil {
		if render.CodeOf(err).Transient() {
			return nil
		}
		return err
	}

	verts := starburst(24, elapsed*0.5)
	if err := table.DrawLines(device, verts, uint32(len(verts)/3), lineColor, 1.5); err != nil {
		return err
	}
	if err := table.EndFrame(device); err != nil {
		return err
	}
	if err := table.Present(device); err != nil && !render.CodeOf(err).Transient() {
		return err
	}
	return nil
}
