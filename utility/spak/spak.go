// Package spak is an lz4-backed resource pack format. The archive itself
// is not compressed; every entry is compressed individually, so the index
// locates each one before anything is read and entries decompress
// independently and concurrently. The renderer ships its compiled shader
// stages in a spak file.
package spak

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/cockroachdb/errors"
)

// package errors
var (
	ErrFileFormat = errors.New("corrupted or not a spak archive")
	ErrNotFound   = errors.New("no entry with that name in the archive")
)

const (
	magic = "SPAK"

	magicLength     = 4
	sizeFieldLength = 16
)

// IndexEntry locates one file within the archive. Offset is relative to
// the start of the data section, which begins right after the encoded
// header.
type IndexEntry struct {
	Name           string
	Offset         int64
	Size           int64
	CompressedSize int64
}

// Header describes the archive and indexes its entries.
type Header struct {
	Author  string
	Created int64
	Version int64
	Index   []IndexEntry
}

func int64ToBinary(num int64) []byte {
	buf := make([]byte, sizeFieldLength)
	binary.LittleEndian.PutUint64(buf, uint64(num))
	return buf
}

func binaryToInt64(bts []byte) int64 {
	return int64(binary.LittleEndian.Uint64(bts))
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	if err := gob.NewEncoder(&encoded).Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	return gob.NewDecoder(bytes.NewReader(bts)).Decode(obj)
}
