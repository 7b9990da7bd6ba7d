package ubi

import (
	"encoding/binary"
	"fmt"
)

// VIDFields is the decoded content of a volume-identifier header.
type VIDFields struct {
	Version uint8
	VolType uint8
	Compat  uint8
	VolID   uint32
	LNum    uint32
}

// EncodeVIDHeader fills a freshly allocated VIDHdrSize-byte buffer.
func EncodeVIDHeader(f VIDFields) []byte {
	b := make([]byte, VIDHdrSize)
	be := binary.BigEndian
	be.PutUint32(b[0:4], VIDHdrMagic)
	b[4] = f.Version
	b[5] = f.VolType
	b[6] = f.Compat
	be.PutUint32(b[8:12], f.VolID)
	be.PutUint32(b[12:16], f.LNum)
	be.PutUint32(b[60:64], crc(b[:vidHdrCRCSize]))
	return b
}

// DecodeVIDHeader parses a VIDHdrSize-byte buffer. A nil, nil return
// means the PEB is in the erased "empty" state: every byte of the magic
// field reads 0xFF, which is how an un-programmed PEB reads back.
func DecodeVIDHeader(b []byte) (*VIDFields, error) {
	if len(b) < VIDHdrSize {
		return nil, fmt.Errorf("ubi: VID header short read: got %d bytes, want %d", len(b), VIDHdrSize)
	}
	be := binary.BigEndian
	magic := be.Uint32(b[0:4])
	if magic == 0xFFFFFFFF {
		return nil, nil
	}
	if magic != VIDHdrMagic {
		return nil, &ValidationError{Kind: BadMagic, Detail: fmt.Sprintf("VID header magic %#08x", magic)}
	}
	if got, want := be.Uint32(b[60:64]), crc(b[:vidHdrCRCSize]); got != want {
		return nil, &ValidationError{Kind: BadCRC, Detail: fmt.Sprintf("VID header CRC %#08x, want %#08x", got, want)}
	}
	f := &VIDFields{
		Version: b[4],
		VolType: b[5],
		Compat:  b[6],
		VolID:   be.Uint32(b[8:12]),
		LNum:    be.Uint32(b[12:16]),
	}
	return f, nil
}
