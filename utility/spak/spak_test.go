package spak_test

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/TylerAlbaz/SolarFramework/utility/spak"
)

var testEntries = map[string][]byte{
	"vs_ndc_passthrough.spv": bytes.Repeat([]byte{0x03, 0x02, 0x23, 0x07}, 64),
	"fs_solid_color.spv":     bytes.Repeat([]byte{0x07, 0x23, 0x02, 0x03}, 96),
	"notes.txt":              []byte("line renderer shader pack"),
}

func buildTestArchive(t *testing.T) []byte {
	t.Helper()
	builder := spak.NewBuilder(spak.Header{
		Author:  "solar",
		Created: time.Now().Unix(),
		Version: 1,
	})
	for name, data := range testEntries {
		if err := builder.Add(name, data); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	num, err := builder.WriteTo(&out)
	if err != nil {
		t.Fatal(err)
	}
	if num != int64(out.Len()) {
		t.Fatalf("reported %d written bytes, buffer has %d", num, out.Len())
	}
	return out.Bytes()
}

func TestRoundTrip(t *testing.T) {
	raw := buildTestArchive(t)

	ar, err := spak.Open(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(ar.Header().Index); got != len(testEntries) {
		t.Fatalf("index holds %d entries, want %d", got, len(testEntries))
	}

	for name, want := range testEntries {
		got, err := ar.ReadAll(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("%s: content mismatch after round trip", name)
		}
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	if _, err := spak.Open(bytes.NewReader([]byte("KAR\x00 something else entirely"))); err != spak.ErrFileFormat {
		t.Fatalf("expected ErrFileFormat, got %v", err)
	}
}

func TestReadAllMissingEntry(t *testing.T) {
	ar, err := spak.Open(bytes.NewReader(buildTestArchive(t)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ar.ReadAll("missing.spv"); err != spak.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReaderStreams(t *testing.T) {
	ar, err := spak.Open(bytes.NewReader(buildTestArchive(t)))
	if err != nil {
		t.Fatal(err)
	}
	r, err := ar.Open("fs_solid_color.spv")
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	chunk := make([]byte, 7)
	for {
		n, err := r.Read(chunk)
		out.Write(chunk[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(out.Bytes(), testEntries["fs_solid_color.spv"]) {
		t.Fatal("streamed content mismatch")
	}
}

func TestBuilderReuse(t *testing.T) {
	builder := spak.NewBuilder(spak.Header{Version: 1})
	if err := builder.Add("a", []byte("first archive")); err != nil {
		t.Fatal(err)
	}
	var first bytes.Buffer
	if _, err := builder.WriteTo(&first); err != nil {
		t.Fatal(err)
	}

	// Drained after writing; the next archive starts empty.
	if err := builder.Add("b", []byte("second archive")); err != nil {
		t.Fatal(err)
	}
	var second bytes.Buffer
	if _, err := builder.WriteTo(&second); err != nil {
		t.Fatal(err)
	}

	ar, err := spak.Open(bytes.NewReader(second.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ar.ReadAll("a"); err != spak.ErrNotFound {
		t.Fatalf("first archive's entry leaked into the second: %v", err)
	}
	if _, err := ar.ReadAll("b"); err != nil {
		t.Fatal(err)
	}
}
