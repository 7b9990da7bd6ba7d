package writer

import (
	"github.com/southpole/ubiflash/internal/flashdev"
	"github.com/southpole/ubiflash/internal/ubi"
)

// writeEB programs one PEB's worth of data page by page, mirroring
// original_source/imagewrite.c's eb_write(): pages that are entirely
// 0xFF are skipped (nothing to program over an erased cell), and the
// clean marker, when enabled, is written only alongside the PEB's
// first page. The loop condition is copied verbatim from the
// original: it keeps going while there is still data to cover OR the
// clean marker has not yet been written, which is what lets a
// dataLen-0 PEB still take exactly one (data-less) pass to deposit its
// marker.
func writeEB(dev flashdev.Device, peb, minIOSize, dataLen int, buf []byte, writeClean bool) error {
	if dataLen == 0 && !writeClean {
		return nil
	}

	pageAddr := 0
	clm := writeClean
	for pageAddr < dataLen || clm {
		page := buf[pageAddr : pageAddr+minIOSize]

		var data []byte
		if !isAllFF(page) {
			data = page
		}
		var oob []byte
		if clm {
			marker := ubi.CleanMarker
			oob = marker[:]
		}

		if err := dev.WritePage(peb, pageAddr, data, oob); err != nil {
			return err
		}

		clm = false
		pageAddr += minIOSize
	}
	return nil
}

func isAllFF(b []byte) bool {
	for _, v := range b {
		if v != 0xFF {
			return false
		}
	}
	return true
}
