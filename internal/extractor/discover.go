package extractor

import (
	"fmt"
	"io"

	"github.com/southpole/ubiflash/internal/ubi"
)

// discover walks PEBs in file order until it finds the layout volume,
// then resolves cfg's requested volume (by name or by index) against
// its volume table. It returns the resolved vtbl slot and the
// volume's name.
func discover(image io.ReaderAt, numPEBs int, cfg Config) (int, string, error) {
	for peb := 0; peb < numPEBs; peb++ {
		buf, err := readPEB(image, peb, cfg.PEBSize)
		if err != nil {
			return 0, "", err
		}
		ec, vid, err := decodeHeaders(buf)
		if err != nil {
			// skip_bad only applies to the later extraction pass
			// (engine.go); the search for the layout volume aborts on
			// the first invalid header, same as
			// original_source/ubi-utils/deubinize.c's read_ubi_info.
			return 0, "", fmt.Errorf("extractor: peb %d: %w", peb, err)
		}
		if vid == nil || vid.VolID != ubi.LayoutVolumeID {
			continue
		}

		dataOff := int(ec.DataOffset)
		if dataOff < 0 || dataOff+ubi.MaxVolumes*ubi.VtblRecordSize > len(buf) {
			return 0, "", fmt.Errorf("extractor: peb %d: volume table does not fit in peb", peb)
		}
		vtbl := buf[dataOff:]

		if cfg.byName() {
			return resolveByName(vtbl, cfg.VolName)
		}
		return resolveByIndex(vtbl, cfg.VolIndex)
	}
	return 0, "", fmt.Errorf("extractor: no layout volume found in %d pebs", numPEBs)
}

// resolveByName is linear over every vtbl slot and, per
// original_source/ubi-utils/deubinize.c's read_ubi_info, tolerates a
// CRC failure on any one candidate record rather than aborting: it
// only fails once all 128 slots have been checked with no match.
func resolveByName(vtbl []byte, name string) (int, string, error) {
	for slot := 0; slot < ubi.MaxVolumes; slot++ {
		off := slot * ubi.VtblRecordSize
		rec, err := ubi.DecodeVtblRecord(vtbl[off : off+ubi.VtblRecordSize])
		if err != nil {
			continue
		}
		if rec.Name == name {
			return slot, rec.Name, nil
		}
	}
	return 0, "", fmt.Errorf("extractor: no volume named %q found in volume table", name)
}

func resolveByIndex(vtbl []byte, index int) (int, string, error) {
	if index < 0 || index >= ubi.MaxVolumes {
		return 0, "", fmt.Errorf("extractor: volume index %d out of range [0, %d)", index, ubi.MaxVolumes)
	}
	off := index * ubi.VtblRecordSize
	rec, err := ubi.DecodeVtblRecord(vtbl[off : off+ubi.VtblRecordSize])
	if err != nil {
		return 0, "", fmt.Errorf("extractor: volume index %d: %w", index, err)
	}
	if rec.Name == "" {
		return 0, "", fmt.Errorf("extractor: volume index %d is an unused slot", index)
	}
	return index, rec.Name, nil
}
