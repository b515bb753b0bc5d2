package spak

import (
	"io"
	"io/ioutil"

	"github.com/pierrec/lz4"
)

// Open reads and validates the archive header from r. The underlying
// reader must stay open for as long as entries are read; the Archive
// itself can be shared between goroutines.
func Open(r io.ReaderAt) (*Archive, error) {
	buf := make([]byte, magicLength)
	if num, err := r.ReadAt(buf, 0); err != nil {
		return nil, err
	} else if num < magicLength || string(buf) != magic {
		return nil, ErrFileFormat
	}

	sizeBytes := make([]byte, sizeFieldLength)
	if num, err := r.ReadAt(sizeBytes, magicLength); err != nil {
		return nil, err
	} else if num < sizeFieldLength {
		return nil, ErrFileFormat
	}
	headerSize := binaryToInt64(sizeBytes)
	if headerSize <= 0 {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, magicLength+sizeFieldLength); err != nil {
		return nil, err
	} else if int64(num) < headerSize {
		return nil, ErrFileFormat
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, ErrFileFormat
	}

	index := make(map[string]IndexEntry, len(header.Index))
	for _, e := range header.Index {
		index[e.Name] = e
	}
	return &Archive{
		reader:     r,
		header:     header,
		index:      index,
		dataOffset: magicLength + sizeFieldLength + headerSize,
	}, nil
}

// Archive is an opened spak file. Entries are read independently, each
// through its own decompressor.
type Archive struct {
	reader     io.ReaderAt
	header     Header
	index      map[string]IndexEntry
	dataOffset int64
}

// Header returns the decoded archive header, index included.
func (a *Archive) Header() Header {
	return a.header
}

// Open returns a Reader positioned at the named entry's decompressed
// content.
func (a *Archive) Open(name string) (*Reader, error) {
	entry, ok := a.index[name]
	if !ok {
		return nil, ErrNotFound
	}
	section := io.NewSectionReader(a.reader, a.dataOffset+entry.Offset, entry.CompressedSize)
	return &Reader{
		decoder: lz4.NewReader(section),
		remain:  entry.Size,
	}, nil
}

// ReadAll returns the entire decompressed content of the named entry.
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	return ioutil.ReadAll(r)
}

// Reader decompresses a single entry.
type Reader struct {
	decoder io.Reader
	remain  int64
}

// Read implements io.Reader over the decompressed content.
func (r *Reader) Read(p []byte) (int, error) {
	if r.remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remain {
		p = p[:r.remain]
	}
	n, err := r.decoder.Read(p)
	r.remain -= int64(n)
	return n, err
}
