package writer

import (
	"fmt"

	"github.com/southpole/ubiflash/internal/flashdev"
	"github.com/southpole/ubiflash/internal/ubi"
)

// Validate checks every geometry precondition spec.md §4.3 and §7
// require be verified before any destructive operation (erase pass or
// write) begins.
func Validate(geo flashdev.Geometry, cfg Config, payloadSize int64, havePayload bool) error {
	if cfg.WindowPEBs() <= 0 {
		return fmt.Errorf("writer: empty PEB window [%d, %d)", cfg.StartPEB, cfg.EndPEB)
	}
	if cfg.StartPEB < 0 || cfg.EndPEB*geo.EBSize > geo.Size {
		return fmt.Errorf("writer: PEB window [%d, %d) outside device of %d PEBs", cfg.StartPEB, cfg.EndPEB, geo.PEBCount())
	}

	windowBytes := int64(cfg.WindowPEBs()) * int64(geo.EBSize)

	if cfg.Mode != ModeUBI {
		if havePayload && payloadSize > windowBytes {
			return fmt.Errorf("writer: payload of %d bytes does not fit into %d-byte window", payloadSize, windowBytes)
		}
		return nil
	}

	if havePayload && cfg.VolName == "" {
		return fmt.Errorf("writer: UBI mode with a payload requires a volume name")
	}
	if len(cfg.VolName) > ubi.VolNameMax {
		return fmt.Errorf("writer: volume name %q exceeds %d bytes", cfg.VolName, ubi.VolNameMax)
	}
	lebSize := ubi.LEBSize(geo.EBSize, geo.MinIOSize*2)
	if havePayload && payloadSize > int64(cfg.VolLEBs)*int64(lebSize) {
		return fmt.Errorf("writer: payload of %d bytes does not fit into %d LEBs of %d bytes", payloadSize, cfg.VolLEBs, lebSize)
	}
	return nil
}
