package render

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/TylerAlbaz/SolarFramework/utility/spak"
)

// Shader pack entry names. The stages are opaque precompiled SPIR-V blobs
// produced by an external shader step; the renderer only checks alignment.
const (
	ShaderVertexNDC   = "vs_ndc_passthrough.spv"
	ShaderVertexWorld = "vs_lines_world.spv"
	ShaderFragment    = "fs_solid_color.spv"
)

// ShaderSet carries the precompiled stages the line pipeline is built
// from. VertexWorld is optional and currently unused by the pipeline; it
// is validated and retained for the world-space line path.
type ShaderSet struct {
	VertexNDC   []byte
	VertexWorld []byte
	Fragment    []byte
}

func (s ShaderSet) validate() error {
	if len(s.VertexNDC) == 0 || len(s.Fragment) == 0 {
		return codedf(BadArgs, "shader set missing vertex or fragment stage")
	}
	for name, blob := range map[string][]byte{
		ShaderVertexNDC:   s.VertexNDC,
		ShaderVertexWorld: s.VertexWorld,
		ShaderFragment:    s.Fragment,
	} {
		if len(blob)%4 != 0 {
			return codedf(BadArgs, "shader %s is not dword-aligned (%d bytes)", name, len(blob))
		}
	}
	return nil
}

// LoadShaderSet reads the stage blobs from a directory of compiled .spv
// files.
func LoadShaderSet(dir string) (ShaderSet, error) {
	var (
		set ShaderSet
		err error
	)
	if set.VertexNDC, err = ioutil.ReadFile(filepath.Join(dir, ShaderVertexNDC)); err != nil {
		return ShaderSet{}, coded(BadArgs, err)
	}
	if set.Fragment, err = ioutil.ReadFile(filepath.Join(dir, ShaderFragment)); err != nil {
		return ShaderSet{}, coded(BadArgs, err)
	}
	// The world-space stage ships alongside but is not required yet.
	if blob, err := ioutil.ReadFile(filepath.Join(dir, ShaderVertexWorld)); err == nil {
		set.VertexWorld = blob
	}
	if err := set.validate(); err != nil {
		return ShaderSet{}, err
	}
	return set, nil
}

// LoadShaderSetArchive reads the stage blobs from a spak archive.
func LoadShaderSetArchive(path string) (ShaderSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return ShaderSet{}, coded(BadArgs, err)
	}
	defer f.Close()

	ar, err := spak.Open(f)
	if err != nil {
		return ShaderSet{}, coded(BadArgs, errors.Wrapf(err, "spak.Open(%s)", path))
	}

	var set ShaderSet
	if set.VertexNDC, err = ar.ReadAll(ShaderVertexNDC); err != nil {
		return ShaderSet{}, coded(BadArgs, err)
	}
	if set.Fragment, err = ar.ReadAll(ShaderFragment); err != nil {
		return ShaderSet{}, coded(BadArgs, err)
	}
	if blob, err := ar.ReadAll(ShaderVertexWorld); err == nil {
		set.VertexWorld = blob
	}
	if err := set.validate(); err != nil {
		return ShaderSet{}, err
	}
	return set, nil
}

// newShaderModule wraps a SPIR-V blob into a Vulkan shader module.
func newShaderModule(device vk.Device, blob []byte) (vk.ShaderModule, error) {
	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(blob)),
		PCode:    sliceUint32(blob),
	}
	var module vk.ShaderModule
	if err := vkCall(Device, "vk.CreateShaderModule", vk.CreateShaderModule(device, &smci, nil, &module)); err != nil {
		return vk.NullShaderModule, err
	}
	return module, nil
}
