package render

import (
	vk "github.com/vulkan-go/vulkan"
)

// AdapterInfo describes a physical rendering adapter, for selection logs
// and host diagnostics.
type AdapterInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	Name          string
	Memory        uint
}

func describeAdapter(adapter vk.PhysicalDevice) AdapterInfo {
	var info AdapterInfo

	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(adapter, &properties)
	properties.Deref()
	info.ID = int(properties.DeviceID)
	info.VendorID = int(properties.VendorID)
	info.Name = vk.ToString(properties.DeviceName[:])
	info.DriverVersion = int(properties.DriverVersion)

	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(adapter, &memoryProperties)
	memoryProperties.Deref()
	for i := uint32(0); i < memoryProperties.MemoryHeapCount; i++ {
		memoryProperties.MemoryHeaps[i].Deref()
		info.Memory += uint(memoryProperties.MemoryHeaps[i].Size)
	}

	return info
}

// Adapter returns info about the adapter the context selected.
func (c *DeviceContext) Adapter() AdapterInfo {
	if c.gpu == nil {
		return AdapterInfo{}
	}
	return describeAdapter(c.gpu.physical)
}
