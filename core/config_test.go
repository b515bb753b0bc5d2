package core_test

import (
	"testing"
	"time"

	"github.com/gobuffalo/envy"

	"github.com/TylerAlbaz/SolarFramework/core"
)

func TestDefaultConfiguration(t *testing.T) {
	cfg := core.DefaultConfiguration()
	if cfg.Renderer.ScreenWidth == 0 || cfg.Renderer.ScreenHeight == 0 {
		t.Fatal("defaults must carry a usable window size")
	}
	if cfg.Time.FramesPerSecond == 0 {
		t.Fatal("defaults must cap the frame rate")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	envy.Temp(func() {
		envy.Set(core.EnvScreenWidth, "1920")
		envy.Set(core.EnvVSync, "false")
		envy.Set(core.EnvShaderArchive, "assets/shaders.spak")

		cfg := core.FromEnv()
		if cfg.Renderer.ScreenWidth != 1920 {
			t.Fatalf("width override lost, got %d", cfg.Renderer.ScreenWidth)
		}
		if cfg.Renderer.VSync {
			t.Fatal("vsync override lost")
		}
		if cfg.Renderer.ShaderArchive != "assets/shaders.spak" {
			t.Fatalf("shader archive override lost, got %q", cfg.Renderer.ShaderArchive)
		}
		// Untouched keys keep their defaults.
		if cfg.Renderer.ScreenHeight != 600 {
			t.Fatalf("height default lost, got %d", cfg.Renderer.ScreenHeight)
		}
	})
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	envy.Temp(func() {
		envy.Set(core.EnvScreenWidth, "not a number")

		cfg := core.FromEnv()
		if cfg.Renderer.ScreenWidth != 800 {
			t.Fatalf("unparseable width should fall back to the default, got %d", cfg.Renderer.ScreenWidth)
		}
	})
}

func TestNewTime(t *testing.T) {
	tm := core.NewTime(core.TimeConfiguration{FramesPerSecond: 60, EventPollDelay: 2})
	defer tm.Stop()

	if tm.Fps() != 60 {
		t.Fatalf("fps lost, got %d", tm.Fps())
	}
	select {
	case <-tm.FpsTicker().C:
	case <-time.After(time.Second):
		t.Fatal("fps ticker never fired")
	}
}

func TestNewTimePollDelayFloor(t *testing.T) {
	tm := core.NewTime(core.TimeConfiguration{FramesPerSecond: 30})
	defer tm.Stop()

	if tm.EventPollDelay() < 1 {
		t.Fatalf("poll delay must have a floor, got %d", tm.EventPollDelay())
	}
}
