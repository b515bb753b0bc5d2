package spak

import (
	"bytes"
	"io"
	"sync"

	"github.com/pierrec/lz4"
)

// Builder assembles a spak archive. Archives are immutable once written;
// the Builder is the only way to create one. Add compresses eagerly, so
// WriteTo only has to lay out the index and copy blocks.
type Builder struct {
	header Header

	mutex sync.Mutex
	files []pendingFile
}

type pendingFile struct {
	name       string
	size       int64
	compressed []byte
}

// NewBuilder creates a Builder. The header's Index is computed at write
// time; anything put there is overwritten.
func NewBuilder(header Header) *Builder {
	header.Index = nil
	return &Builder{header: header}
}

// Add compresses data and queues it under the given name. Blocks until
// lz4 finishes. Safe to call from several goroutines.
func (b *Builder) Add(name string, data []byte) error {
	var block bytes.Buffer
	writer := lz4.NewWriter(&block)
	if _, err := writer.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = append(b.files, pendingFile{
		name:       name,
		size:       int64(len(data)),
		compressed: block.Bytes(),
	})
	return nil
}

// WriteTo lays out the index and writes the complete archive. The Builder
// is drained afterwards and can be reused for another archive.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	header := b.header
	var offset int64
	for _, f := range b.files {
		header.Index = append(header.Index, IndexEntry{
			Name:           f.name,
			Offset:         offset,
			Size:           f.size,
			CompressedSize: int64(len(f.compressed)),
		})
		offset += int64(len(f.compressed))
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var written int64
	for _, chunk := range [][]byte{[]byte(magic), int64ToBinary(int64(len(rawHeader))), rawHeader} {
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	for _, f := range b.files {
		n, err := w.Write(f.compressed)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	b.files = b.files[:0]
	return written, nil
}
