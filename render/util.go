package render

import (
	"fmt"
	"unsafe"
)

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}

// sliceUint32 reslices SPIR-V bytes into the dword view the Vulkan API
// consumes. The caller must keep the byte slice alive for as long as the
// result is used.
func sliceUint32(data []byte) []uint32 {
	const m = 0x7fffffff
	return (*[m / 4]uint32)(unsafe.Pointer((*sliceHeader)(unsafe.Pointer(&data)).Data))[:len(data)/4]
}

// bytesFromPointer views n bytes of mapped device memory as a byte slice.
// The mapping must stay valid for the lifetime of the slice.
func bytesFromPointer(ptr unsafe.Pointer, n int) []byte {
	const m = 0x7fffffff
	return (*[m]byte)(ptr)[:n:n]
}

// safeString null-terminates a string for consumption by the C side of
// the Vulkan binding.
func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, fmt.Sprintf("%s\x00", s))
	}
	return safe
}
