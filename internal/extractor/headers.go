package extractor

import (
	"fmt"
	"io"

	"github.com/southpole/ubiflash/internal/ubi"
)

// readPEB loads one PEB's full bytes at the given index.
func readPEB(image io.ReaderAt, peb, pebSize int) ([]byte, error) {
	buf := make([]byte, pebSize)
	if _, err := image.ReadAt(buf, int64(peb)*int64(pebSize)); err != nil {
		return nil, fmt.Errorf("extractor: read peb %d: %w", peb, err)
	}
	return buf, nil
}

// decodeHeaders parses a PEB's EC header and, using the offset it
// names, its VID header. A nil *ubi.VIDFields with a nil error means
// the PEB reads back as empty (erased, never written).
func decodeHeaders(buf []byte) (ubi.ECFields, *ubi.VIDFields, error) {
	ec, err := ubi.DecodeECHeader(buf)
	if err != nil {
		return ec, nil, err
	}
	vidOff := int(ec.VIDHdrOffset)
	if vidOff < 0 || vidOff+ubi.VIDHdrSize > len(buf) {
		return ec, nil, fmt.Errorf("extractor: vid_hdr_offset %d out of range for a %d-byte peb", vidOff, len(buf))
	}
	vid, err := ubi.DecodeVIDHeader(buf[vidOff : vidOff+ubi.VIDHdrSize])
	if err != nil {
		return ec, nil, err
	}
	return ec, vid, nil
}
