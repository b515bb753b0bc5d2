package render

import (
	"testing"
)

func hostStagingBuffer(capacity uint32) *stagingBuffer {
	return &stagingBuffer{
		mapped:   make([]byte, capacity),
		capacity: capacity,
	}
}

func TestStageReplacesWholesale(t *testing.T) {
	buf := hostStagingBuffer(MinStagingBytes)

	if err := buf.stage(make([]float32, 30)); err != nil {
		t.Fatal(err)
	}
	if buf.used != 120 || buf.vertexCount() != 10 {
		t.Fatalf("used=%d count=%d after first stage", buf.used, buf.vertexCount())
	}

	// A smaller payload shrinks the staged region; stale bytes beyond it
	// are not drawn.
	if err := buf.stage(make([]float32, 6)); err != nil {
		t.Fatal(err)
	}
	if buf.used != 24 || buf.vertexCount() != 2 {
		t.Fatalf("used=%d count=%d after second stage", buf.used, buf.vertexCount())
	}
}

func TestStageOverflow(t *testing.T) {
	buf := hostStagingBuffer(MinStagingBytes)
	if err := buf.stage(make([]float32, 12)); err != nil {
		t.Fatal(err)
	}

	over := make([]float32, MinStagingBytes/4+1)
	err := buf.stage(over)
	if code := CodeOf(err); code != NoMem {
		t.Fatalf("expected out of memory, got %v", code)
	}
	if buf.used != 48 {
		t.Fatalf("overflow must not disturb the staged region, used=%d", buf.used)
	}
}

func TestStageExactCapacity(t *testing.T) {
	buf := hostStagingBuffer(MinStagingBytes)

	if err := buf.stage(make([]float32, MinStagingBytes/4)); err != nil {
		t.Fatalf("a payload exactly at capacity must fit: %v", err)
	}
	if buf.used != MinStagingBytes {
		t.Fatalf("used=%d, want %d", buf.used, uint32(MinStagingBytes))
	}
}

func TestStageCopiesBytes(t *testing.T) {
	buf := hostStagingBuffer(MinStagingBytes)

	verts := []float32{1, 2, 3, 4, 5, 6}
	if err := buf.stage(verts); err != nil {
		t.Fatal(err)
	}
	round := sliceUint32(buf.mapped[:buf.used])
	if len(round) != 6 {
		t.Fatalf("expected 6 staged words, got %d", len(round))
	}
}

func TestReset(t *testing.T) {
	buf := hostStagingBuffer(MinStagingBytes)
	if err := buf.stage(make([]float32, 9)); err != nil {
		t.Fatal(err)
	}
	buf.reset()
	if buf.used != 0 || buf.vertexCount() != 0 {
		t.Fatalf("reset left used=%d", buf.used)
	}
}
