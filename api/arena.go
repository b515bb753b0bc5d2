package api

import (
	"github.com/TylerAlbaz/SolarFramework/render"
)

// Handle identifies a device context across the host boundary. Zero means
// "no object". The low half is a slot index, the high half a generation
// counter, so a stale or foreign handle is detected and reported instead
// of dereferenced.
type Handle uint64

type slot struct {
	ctx        *render.DeviceContext
	generation uint32
	live       bool
}

// arena stores device contexts behind generation-checked handles. Like
// everything else in this module it is confined to the render thread and
// needs no locking.
type arena struct {
	slots []slot
	free  []uint32
}

func packHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index+1))
}

func unpackHandle(h Handle) (index, generation uint32, ok bool) {
	low := uint32(h & 0xFFFFFFFF)
	if low == 0 {
		return 0, 0, false
	}
	return low - 1, uint32(h >> 32), true
}

func (a *arena) insert(ctx *render.DeviceContext) Handle {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.ctx = ctx
		s.live = true
		return packHandle(index, s.generation)
	}
	a.slots = append(a.slots, slot{ctx: ctx, live: true})
	return packHandle(uint32(len(a.slots)-1), 0)
}

func (a *arena) lookup(h Handle) (*render.DeviceContext, error) {
	index, generation, ok := unpackHandle(h)
	if !ok {
		return nil, badHandle("null device handle")
	}
	if int(index) >= len(a.slots) {
		return nil, badHandle("foreign device handle")
	}
	s := &a.slots[index]
	if !s.live || s.generation != generation {
		return nil, badHandle("stale device handle")
	}
	return s.ctx, nil
}

// remove frees the slot and bumps its generation so outstanding copies of
// the handle go stale.
func (a *arena) remove(h Handle) (*render.DeviceContext, error) {
	ctx, err := a.lookup(h)
	if err != nil {
		return nil, err
	}
	index, _, _ := unpackHandle(h)
	s := &a.slots[index]
	s.ctx = nil
	s.live = false
	s.generation++
	a.free = append(a.free, index)
	return ctx, nil
}
