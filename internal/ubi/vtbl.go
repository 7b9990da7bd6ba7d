package ubi

import (
	"encoding/binary"
	"fmt"
)

// VtblFields is the decoded content of one of a volume table's 128
// records. An empty Name (len 0) denotes an unused slot.
type VtblFields struct {
	ReservedPEBs uint32
	Alignment    uint32
	VolType      uint8
	Name         string
}

// EncodeVtblRecord fills a freshly allocated VtblRecordSize-byte buffer.
// Passing the zero VtblFields produces a valid, all-zero, CRC-stamped
// "unused slot" record — matching what the original writer emits for
// every vtbl slot but the target volume's.
func EncodeVtblRecord(f VtblFields) ([]byte, error) {
	if len(f.Name) > VolNameMax {
		return nil, fmt.Errorf("ubi: volume name %q exceeds %d bytes", f.Name, VolNameMax)
	}
	b := make([]byte, VtblRecordSize)
	be := binary.BigEndian
	be.PutUint32(b[0:4], f.ReservedPEBs)
	be.PutUint32(b[4:8], f.Alignment)
	// b[8:12] data_pad: always 0, this implementation never pads LEBs.
	b[12] = f.VolType
	// b[13] upd_marker: always 0, no partial-update support.
	be.PutUint16(b[14:16], uint16(len(f.Name)))
	copy(b[16:16+VolNameMax+1], f.Name)
	// b[16+VolNameMax+1 : 16+VolNameMax+1+1] flags, rest padding: left zero.
	be.PutUint32(b[VtblRecordSize-4:], crc(b[:vtblRecordCRCSize]))
	return b, nil
}

// DecodeVtblRecord parses a VtblRecordSize-byte buffer, validating its
// CRC. It does not itself treat an empty name as an error: callers
// decide what an unused slot means for them.
func DecodeVtblRecord(b []byte) (VtblFields, error) {
	var f VtblFields
	if len(b) < VtblRecordSize {
		return f, fmt.Errorf("ubi: vtbl record short read: got %d bytes, want %d", len(b), VtblRecordSize)
	}
	be := binary.BigEndian
	if got, want := be.Uint32(b[VtblRecordSize-4:]), crc(b[:vtblRecordCRCSize]); got != want {
		return f, &ValidationError{Kind: BadCRC, Detail: fmt.Sprintf("vtbl record CRC %#08x, want %#08x", got, want)}
	}
	nameLen := be.Uint16(b[14:16])
	if int(nameLen) > VolNameMax {
		return f, &ValidationError{Kind: BadCRC, Detail: fmt.Sprintf("vtbl record name_len %d exceeds %d", nameLen, VolNameMax)}
	}
	f.ReservedPEBs = be.Uint32(b[0:4])
	f.Alignment = be.Uint32(b[4:8])
	f.VolType = b[12]
	f.Name = string(b[16 : 16+int(nameLen)])
	return f, nil
}
