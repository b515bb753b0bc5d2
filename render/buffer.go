package render

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// stagingBuffer is the fixed-capacity, persistently host-mapped vertex
// buffer line data is uploaded through. It is created once, never resized,
// and unmapped only on destruction. Writes replace the staged content
// wholesale; the last write before EndFrame is what gets drawn.
type stagingBuffer struct {
	device vk.Device
	buffer vk.Buffer
	memory vk.DeviceMemory

	mapped   []byte
	capacity uint32
	used     uint32
}

// newStagingBuffer creates, binds and maps a host-visible vertex buffer of
// at least minBytes capacity.
func newStagingBuffer(device vk.Device, physical vk.PhysicalDevice, minBytes uint32) (*stagingBuffer, error) {
	if minBytes < MinStagingBytes {
		minBytes = MinStagingBytes
	}

	bci := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(minBytes),
		Usage:       vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit),
		SharingMode: vk.SharingModeExclusive,
	}
	var buffer vk.Buffer
	if err := vkCall(Device, "vk.CreateBuffer", vk.CreateBuffer(device, &bci, nil, &buffer)); err != nil {
		return nil, err
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, buffer, &req)
	req.Deref()

	memType, err := findMemoryType(physical, req.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		vk.DestroyBuffer(device, buffer, nil)
		return nil, err
	}

	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memType,
	}
	var memory vk.DeviceMemory
	if err := vkCall(Device, "vk.AllocateMemory", vk.AllocateMemory(device, &mai, nil, &memory)); err != nil {
		vk.DestroyBuffer(device, buffer, nil)
		return nil, err
	}
	if err := vkCall(Device, "vk.BindBufferMemory", vk.BindBufferMemory(device, buffer, memory, 0)); err != nil {
		vk.FreeMemory(device, memory, nil)
		vk.DestroyBuffer(device, buffer, nil)
		return nil, err
	}

	var ptr unsafe.Pointer
	if err := vkCall(Device, "vk.MapMemory", vk.MapMemory(device, memory, 0, req.Size, 0, &ptr)); err != nil {
		vk.FreeMemory(device, memory, nil)
		vk.DestroyBuffer(device, buffer, nil)
		return nil, err
	}

	return &stagingBuffer{
		device:   device,
		buffer:   buffer,
		memory:   memory,
		mapped:   bytesFromPointer(ptr, int(req.Size)),
		capacity: uint32(req.Size),
	}, nil
}

// stage replaces the buffer content with verts. Fails with NoMem when the
// payload exceeds the fixed capacity, leaving prior state untouched.
func (b *stagingBuffer) stage(verts []float32) error {
	need := uint32(len(verts) * 4)
	if need > b.capacity {
		return codedf(NoMem, "lines buffer overflow: need %d bytes, capacity %d", need, b.capacity)
	}
	if need > 0 {
		copy(b.mapped, bytesFromPointer(unsafe.Pointer(&verts[0]), int(need)))
	}
	b.used = need
	return nil
}

func (b *stagingBuffer) reset() {
	b.used = 0
}

func (b *stagingBuffer) vertexCount() uint32 {
	return b.used / vertexStride
}

func (b *stagingBuffer) destroy() {
	if b.memory != vk.NullDeviceMemory {
		vk.UnmapMemory(b.device, b.memory)
	}
	if b.buffer != vk.NullBuffer {
		vk.DestroyBuffer(b.device, b.buffer, nil)
	}
	if b.memory != vk.NullDeviceMemory {
		vk.FreeMemory(b.device, b.memory, nil)
	}
	b.buffer = vk.NullBuffer
	b.memory = vk.NullDeviceMemory
	b.mapped = nil
}

// findMemoryType walks the adapter's memory types for one matching the
// filter and property set.
func findMemoryType(physical vk.PhysicalDevice, filter uint32, props vk.MemoryPropertyFlags) (uint32, error) {
	var memProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(physical, &memProperties)
	memProperties.Deref()

	for idx := uint32(0); idx < memProperties.MemoryTypeCount; idx++ {
		memProperties.MemoryTypes[idx].Deref()
		if filter&(1<<idx) != 0 && (memProperties.MemoryTypes[idx].PropertyFlags&props) == props {
			return idx, nil
		}
	}
	return 0, coded(Device, errors.New("suitable memory type not found"))
}
