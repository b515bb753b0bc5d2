package render

import (
	"time"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

const (
	// FramesInFlight is the synchronisation policy: one fence and one
	// semaphore pair guard a single frame at a time. A deliberate
	// latency-over-throughput tradeoff; raising it would require widening
	// the FrameSynchronizer contract, not just this constant.
	FramesInFlight = 1

	// MinStagingBytes is the smallest vertex staging buffer the renderer
	// will create. Requests below it are rounded up at creation and the
	// buffer is never resized afterwards.
	MinStagingBytes = 64 * 1024

	// DefaultFrameTimeout bounds the per-frame fence wait. A hung or
	// removed device surfaces a Device error instead of stalling the
	// render thread forever.
	DefaultFrameTimeout = 10 * time.Second

	// vertexFloats is the number of float32 components staged per line
	// vertex.
	vertexFloats = 3

	// vertexStride is the staged byte size of one line vertex.
	vertexStride = vertexFloats * 4
)

// Color is a linear RGBA quadruplet, used both for clears and for the
// solid line colour pushed to the fragment stage.
type Color [4]float32

// Extent is a surface size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

func (e Extent) zero() bool {
	return e.Width == 0 || e.Height == 0
}

// Window is the capability the host's windowing layer provides to the
// renderer: surface creation and live client-area queries. The SDL demo
// under cmd/solarview adapts an sdl.Window to it.
type Window interface {
	// InstanceProcAddr returns the vkGetInstanceProcAddr pointer obtained
	// from the windowing library, or nil to use the system loader.
	InstanceProcAddr() unsafe.Pointer

	// InstanceExtensions lists the instance extensions the window's
	// surface needs.
	InstanceExtensions() []string

	// CreateSurface creates a presentation surface bound to the window.
	CreateSurface(instance vk.Instance) (vk.Surface, error)

	// DrawableExtent returns the current client area in pixels. Zero in
	// either dimension means the window is minimised.
	DrawableExtent() (width, height uint32)
}

// Logger is the injectable structured-logging capability. A *logrus.Logger
// satisfies it directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// Config describes a device context to create.
type Config struct {
	// Window is the presentation target. Required.
	Window Window

	// Width and Height are initial client-area hints. The live drawable
	// size always wins; these only seed the first swapchain when the
	// surface does not report a current extent.
	Width  uint32
	Height uint32

	// Validation enables the Vulkan validation layer and debug-report
	// extension.
	Validation bool

	// VSync selects FIFO presentation. When off, mailbox then immediate
	// are preferred with FIFO as the mandated fallback.
	VSync bool

	// Shaders carries the precompiled SPIR-V stages. Opaque input; only
	// dword alignment is checked.
	Shaders ShaderSet

	// StagingBytes requests a vertex staging capacity. Rounded up to
	// MinStagingBytes.
	StagingBytes uint32

	// FrameTimeout bounds the frame fence wait. Zero means
	// DefaultFrameTimeout.
	FrameTimeout time.Duration

	// Logger receives lifecycle diagnostics. Nil disables logging.
	Logger Logger

	// AppName is reported to the Vulkan driver.
	AppName string
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.StagingBytes < MinStagingBytes {
		out.StagingBytes = MinStagingBytes
	}
	if out.FrameTimeout <= 0 {
		out.FrameTimeout = DefaultFrameTimeout
	}
	if out.Logger == nil {
		out.Logger = nopLogger{}
	}
	if out.AppName == "" {
		out.AppName = "SolarFramework"
	}
	return out
}
