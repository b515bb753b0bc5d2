package render

import (
	"testing"
)

// The teardown destructors run unconditionally, so every destroy helper
// must be a no-op over absent objects: a device that never came up, a
// chain whose creation was deferred, a pipeline torn down mid-rebuild.

func TestWaitIdleWithoutDevice(t *testing.T) {
	(&gpuState{}).waitIdle()
}

func TestDestroyChainObjectsAbsent(t *testing.T) {
	g := &gpuState{}
	g.destroyChainObjects()
	g.destroyChainObjects()
}

func TestPipelineSetDestroyAbsent(t *testing.T) {
	var p pipelineSet
	p.destroy(nil)
	p.destroy(nil)
}
