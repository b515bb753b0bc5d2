package core

import (
	"strconv"

	"github.com/gobuffalo/envy"
)

// Configuration defines a global application configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out.
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the interval between window event
	// sweeps, in milliseconds
	EventPollDelay int
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	ScreenWidth  uint32
	ScreenHeight uint32

	// Validation enables the Vulkan validation layer
	Validation bool

	// VSync locks presentation to the display refresh
	VSync bool

	// ShaderDirectory holds the compiled shader stages as loose files
	ShaderDirectory string

	// ShaderArchive, when set, takes precedence over ShaderDirectory
	ShaderArchive string

	// StagingBytes requests the vertex staging capacity
	StagingBytes uint32

	AppName string
}

// Environment variable names the configuration is read from.
const (
	EnvScreenWidth   = "SOLAR_WIDTH"
	EnvScreenHeight  = "SOLAR_HEIGHT"
	EnvValidation    = "SOLAR_VALIDATION"
	EnvVSync         = "SOLAR_VSYNC"
	EnvShaderDir     = "SOLAR_SHADER_DIR"
	EnvShaderArchive = "SOLAR_SHADER_ARCHIVE"
	EnvFPS           = "SOLAR_FPS"
)

// DefaultConfiguration is the baseline every environment override is
// applied on top of.
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			EventPollDelay:  2,
		},
		Renderer: RendererConfiguration{
			ScreenWidth:     800,
			ScreenHeight:    600,
			VSync:           true,
			ShaderDirectory: "./shaders",
			AppName:         "SolarFramework",
		},
	}
}

// FromEnv builds the configuration from the process environment on top
// of the defaults. A .env file loaded beforehand participates like any
// other environment variable.
func FromEnv() Configuration {
	cfg := DefaultConfiguration()

	cfg.Renderer.ScreenWidth = envUint32(EnvScreenWidth, cfg.Renderer.ScreenWidth)
	cfg.Renderer.ScreenHeight = envUint32(EnvScreenHeight, cfg.Renderer.ScreenHeight)
	cfg.Renderer.Validation = envBool(EnvValidation, cfg.Renderer.Validation)
	cfg.Renderer.VSync = envBool(EnvVSync, cfg.Renderer.VSync)
	cfg.Renderer.ShaderDirectory = envy.Get(EnvShaderDir, cfg.Renderer.ShaderDirectory)
	cfg.Renderer.ShaderArchive = envy.Get(EnvShaderArchive, cfg.Renderer.ShaderArchive)
	cfg.Time.FramesPerSecond = envInt(EnvFPS, cfg.Time.FramesPerSecond)

	return cfg
}

func envUint32(key string, fallback uint32) uint32 {
	num, err := strconv.ParseUint(envy.Get(key, ""), 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(num)
}

func envInt(key string, fallback int) int {
	num, err := strconv.Atoi(envy.Get(key, ""))
	if err != nil {
		return fallback
	}
	return num
}

func envBool(key string, fallback bool) bool {
	val, err := strconv.ParseBool(envy.Get(key, ""))
	if err != nil {
		return fallback
	}
	return val
}
