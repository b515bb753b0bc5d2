package render

import (
	"testing"
)

func TestTeardownRunsInReverse(t *testing.T) {
	var order []int
	var td teardown
	for i := 0; i < 4; i++ {
		i := i
		td.push(func() { order = append(order, i) })
	}
	if td.live() != 4 {
		t.Fatalf("live=%d, want 4", td.live())
	}

	td.unwind()
	if td.live() != 0 {
		t.Fatalf("live=%d after unwind", td.live())
	}
	for i, got := range order {
		if want := 3 - i; got != want {
			t.Fatalf("unwind order %v", order)
		}
	}

	// A second unwind is a no-op.
	td.unwind()
	if len(order) != 4 {
		t.Fatalf("destructors ran twice: %v", order)
	}
}

func TestNewDeviceContextNilWindow(t *testing.T) {
	_, err := NewDeviceContext(Config{})
	if code := CodeOf(err); code != BadArgs {
		t.Fatalf("nil window should report bad arguments, got %v", code)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := (&Config{StagingBytes: 1024}).withDefaults()
	if cfg.StagingBytes != MinStagingBytes {
		t.Fatalf("staging request below the floor must round up, got %d", cfg.StagingBytes)
	}
	if cfg.FrameTimeout != DefaultFrameTimeout {
		t.Fatalf("zero timeout must default, got %v", cfg.FrameTimeout)
	}
	if cfg.Logger == nil {
		t.Fatal("nil logger must become a no-op logger")
	}
	if cfg.AppName == "" {
		t.Fatal("empty app name must default")
	}
}

func TestShaderSetValidate(t *testing.T) {
	full := ShaderSet{
		VertexNDC: make([]byte, 8),
		Fragment:  make([]byte, 4),
	}
	if err := full.validate(); err != nil {
		t.Fatal(err)
	}

	missing := ShaderSet{VertexNDC: make([]byte, 8)}
	if code := CodeOf(missing.validate()); code != BadArgs {
		t.Fatal("missing fragment stage must be rejected")
	}

	misaligned := ShaderSet{
		VertexNDC: make([]byte, 8),
		Fragment:  make([]byte, 5),
	}
	if code := CodeOf(misaligned.validate()); code != BadArgs {
		t.Fatal("non-dword blob must be rejected")
	}
}

func TestLastErrorTracksFailures(t *testing.T) {
	ctx := newTestContext(&fakeChain{client: Extent{}, built: Extent{800, 600}})

	if ctx.LastError() != "" {
		t.Fatal("fresh context should have no last error")
	}
	_ = ctx.BeginFrame(Color{})
	if ctx.LastError() == "" {
		t.Fatal("failed frame should set the last error")
	}
}
