package writer

import (
	"fmt"

	"github.com/southpole/ubiflash/internal/bytesource"
	"github.com/southpole/ubiflash/internal/flashdev"
	"github.com/southpole/ubiflash/internal/ubi"
)

// ubiDataOffset is the fixed byte offset of LEB data within a PEB: one
// page for the EC header, one page for the VID header, matching
// original_source/imagewrite.c's `data_ofs = mtd->min_io_size * 2`.
func ubiDataOffset(minIOSize int) int {
	return minIOSize * 2
}

// genBlock fills buf (which must be geo.EBSize bytes, already at its
// caller-owned all-0xFF state is not assumed: genBlock always resets it
// first) and returns the number of meaningful leading bytes. src may be
// nil when there is no payload at all (pure erase / UBI-with-no-data
// runs); raw mode with a nil src is only valid when the window itself
// has zero length to fill, which the caller guarantees never happens.
func genBlock(geo flashdev.Geometry, cfg Config, st *State, src *bytesource.Source, buf []byte) (int, error) {
	for i := range buf {
		buf[i] = 0xFF
	}

	if cfg.Mode != ModeUBI {
		if src == nil {
			return 0, nil
		}
		n, err := readFull(src, buf)
		if err != nil {
			return 0, err
		}
		st.BlkNo++
		return n, nil
	}

	dataOfs := ubiDataOffset(geo.MinIOSize)
	ec := ubi.EncodeECHeader(ubi.ECFields{
		Version:      ubi.Version,
		VIDHdrOffset: uint32(geo.MinIOSize),
		DataOffset:   uint32(dataOfs),
		ImageSeq:     st.imageSeq(),
	})
	copy(buf[0:], ec)

	var dataLen int
	switch {
	case st.BlkNo < ubi.LayoutVolumeEBs:
		vid := ubi.EncodeVIDHeader(ubi.VIDFields{
			Version: ubi.Version,
			VolType: ubi.VolDynamic,
			Compat:  ubi.LayoutVolumeCompat,
			VolID:   ubi.LayoutVolumeID,
			LNum:    uint32(st.BlkNo),
		})
		copy(buf[geo.MinIOSize:], vid)

		off := dataOfs
		if off+ubi.MaxVolumes*ubi.VtblRecordSize > len(buf) {
			return 0, fmt.Errorf("writer: volume table of %d records does not fit in a %d-byte PEB at data offset %d", ubi.MaxVolumes, len(buf), dataOfs)
		}
		for slot := 0; slot < ubi.MaxVolumes; slot++ {
			fields := ubi.VtblFields{}
			if slot == int(cfg.VolID) {
				fields = ubi.VtblFields{
					ReservedPEBs: uint32(cfg.VolLEBs),
					Alignment:    1,
					VolType:      ubi.VolDynamic,
					Name:         cfg.VolName,
				}
			}
			rec, err := ubi.EncodeVtblRecord(fields)
			if err != nil {
				return 0, err
			}
			copy(buf[off:], rec)
			off += ubi.VtblRecordSize
		}
		dataLen = off

	case st.BlkNo < cfg.VolLEBs+ubi.LayoutVolumeEBs:
		lnum := st.BlkNo - ubi.LayoutVolumeEBs
		vid := ubi.EncodeVIDHeader(ubi.VIDFields{
			Version: ubi.Version,
			VolType: ubi.VolDynamic,
			VolID:   cfg.VolID,
			LNum:    uint32(lnum),
		})
		copy(buf[geo.MinIOSize:], vid)

		lebSize := ubi.LEBSize(geo.EBSize, dataOfs)
		n := 0
		if src != nil {
			var err error
			n, err = readFull(src, buf[dataOfs:dataOfs+lebSize])
			if err != nil {
				return 0, err
			}
		}
		dataLen = dataOfs + n

	default:
		dataLen = ubi.ECHdrSize
	}

	st.BlkNo++
	return dataLen, nil
}

// readFull reads up to len(dest) bytes from src, stopping early (with
// no error) only on src's graceful end-of-payload.
func readFull(src *bytesource.Source, dest []byte) (int, error) {
	total := 0
	for total < len(dest) {
		n, err := src.Read(dest[total:])
		total += n
		if err != nil {
			return total, fmt.Errorf("writer: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}
