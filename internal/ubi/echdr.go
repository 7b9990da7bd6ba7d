package ubi

import (
	"encoding/binary"
	"fmt"
)

// ECFields is the decoded content of an erase-count header.
type ECFields struct {
	Version      uint8
	VIDHdrOffset uint32
	DataOffset   uint32
	ImageSeq     uint32
}

// EncodeECHeader fills a freshly allocated ECHdrSize-byte buffer with f,
// computes its CRC, and places the CRC last. The erase counter field is
// always written as 0: this module does not track wear (spec Non-goals).
func EncodeECHeader(f ECFields) []byte {
	b := make([]byte, ECHdrSize)
	be := binary.BigEndian
	be.PutUint32(b[0:4], ECHdrMagic)
	b[4] = f.Version
	// b[5:8] padding, b[8:16] erase counter: left zero.
	be.PutUint32(b[16:20], f.VIDHdrOffset)
	be.PutUint32(b[20:24], f.DataOffset)
	be.PutUint32(b[24:28], f.ImageSeq)
	// b[28:60] padding: left zero.
	be.PutUint32(b[60:64], crc(b[:ecHdrCRCSize]))
	return b
}

// DecodeECHeader validates and parses an ECHdrSize-byte buffer.
func DecodeECHeader(b []byte) (ECFields, error) {
	var f ECFields
	if len(b) < ECHdrSize {
		return f, fmt.Errorf("ubi: EC header short read: got %d bytes, want %d", len(b), ECHdrSize)
	}
	be := binary.BigEndian
	if magic := be.Uint32(b[0:4]); magic != ECHdrMagic {
		return f, &ValidationError{Kind: BadMagic, Detail: fmt.Sprintf("EC header magic %#08x", magic)}
	}
	if got, want := be.Uint32(b[60:64]), crc(b[:ecHdrCRCSize]); got != want {
		return f, &ValidationError{Kind: BadCRC, Detail: fmt.Sprintf("EC header CRC %#08x, want %#08x", got, want)}
	}
	f.Version = b[4]
	f.VIDHdrOffset = be.Uint32(b[16:20])
	f.DataOffset = be.Uint32(b[20:24])
	f.ImageSeq = be.Uint32(b[24:28])
	return f, nil
}
