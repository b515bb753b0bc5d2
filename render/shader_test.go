package render

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/TylerAlbaz/SolarFramework/utility/spak"
)

var (
	testVertexBlob   = bytes.Repeat([]byte{0x03, 0x02, 0x23, 0x07}, 16)
	testFragmentBlob = bytes.Repeat([]byte{0x07, 0x23, 0x02, 0x03}, 16)
)

func writeShaderDir(t *testing.T, withWorld bool) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		ShaderVertexNDC: testVertexBlob,
		ShaderFragment:  testFragmentBlob,
	}
	if withWorld {
		files[ShaderVertexWorld] = testVertexBlob
	}
	for name, blob := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, name), blob, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadShaderSet(t *testing.T) {
	set, err := LoadShaderSet(writeShaderDir(t, true))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(set.VertexNDC, testVertexBlob) || !bytes.Equal(set.Fragment, testFragmentBlob) {
		t.Fatal("loaded stages differ from the files on disk")
	}
	if len(set.VertexWorld) == 0 {
		t.Fatal("world-space stage present on disk but not loaded")
	}
}

func TestLoadShaderSetWorldOptional(t *testing.T) {
	set, err := LoadShaderSet(writeShaderDir(t, false))
	if err != nil {
		t.Fatal(err)
	}
	if set.VertexWorld != nil {
		t.Fatal("absent world-space stage should stay nil")
	}
}

func TestLoadShaderSetMissingStage(t *testing.T) {
	dir := t.TempDir()
	if err := ioutil.WriteFile(filepath.Join(dir, ShaderVertexNDC), testVertexBlob, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadShaderSet(dir)
	if code := CodeOf(err); code != BadArgs {
		t.Fatalf("missing fragment stage should report bad arguments, got %v", code)
	}
}

func TestLoadShaderSetArchive(t *testing.T) {
	builder := spak.NewBuilder(spak.Header{Author: "solar", Version: 1})
	if err := builder.Add(ShaderVertexNDC, testVertexBlob); err != nil {
		t.Fatal(err)
	}
	if err := builder.Add(ShaderFragment, testFragmentBlob); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "shaders.spak")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := builder.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	set, err := LoadShaderSetArchive(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(set.VertexNDC, testVertexBlob) || !bytes.Equal(set.Fragment, testFragmentBlob) {
		t.Fatal("archived stages differ after loading")
	}
}

func TestLoadShaderSetArchiveMissing(t *testing.T) {
	_, err := LoadShaderSetArchive(filepath.Join(t.TempDir(), "nope.spak"))
	if code := CodeOf(err); code != BadArgs {
		t.Fatalf("missing archive should report bad arguments, got %v", code)
	}
}
