package extractor

import (
	"fmt"
	"os"
)

// Reporter is the narrow progress surface Run needs; internal/cliutil.Logger
// satisfies it structurally.
type Reporter interface {
	Info(format string, args ...any)
	Verbose(format string, args ...any)
	Progress(prefix string, cur, max int)
}

type nopReporter struct{}

func (nopReporter) Info(string, ...any)       {}
func (nopReporter) Verbose(string, ...any)    {}
func (nopReporter) Progress(string, int, int) {}

// Run validates image's size against cfg.PEBSize, discovers the
// requested volume via the layout volume's table, then walks every
// PEB once more, writing the resolved volume's reconstructed data to
// out at lnum*leb_size.
func Run(image *os.File, out *os.File, cfg Config, rep Reporter) error {
	if rep == nil {
		rep = nopReporter{}
	}

	st, err := image.Stat()
	if err != nil {
		return fmt.Errorf("extractor: stat image: %w", err)
	}
	if cfg.PEBSize <= 0 || st.Size()%int64(cfg.PEBSize) != 0 || st.Size() == 0 {
		return fmt.Errorf("extractor: image size %d is not a positive multiple of peb size %d", st.Size(), cfg.PEBSize)
	}
	numPEBs := int(st.Size() / int64(cfg.PEBSize))

	volIndex, volName, err := discover(image, numPEBs, cfg)
	if err != nil {
		return err
	}
	rep.Info("extracting volume %d (%q)", volIndex, volName)

	lebSize := 0
	extracted := 0
	for peb := 0; peb < numPEBs; peb++ {
		rep.Progress("Extracting ", peb+1, numPEBs)

		buf, err := readPEB(image, peb, cfg.PEBSize)
		if err != nil {
			return err
		}
		ec, vid, err := decodeHeaders(buf)
		if err != nil {
			if cfg.SkipBad {
				rep.Verbose("skipping invalid peb %d: %v", peb, err)
				continue
			}
			return fmt.Errorf("extractor: peb %d: %w", peb, err)
		}
		if vid == nil || int(vid.VolID) != volIndex {
			continue
		}

		dataOff := int(ec.DataOffset)
		if lebSize == 0 {
			lebSize = cfg.PEBSize - dataOff
		}

		data := buf[dataOff:]
		offset := int64(vid.LNum) * int64(lebSize)
		if _, err := out.WriteAt(data, offset); err != nil {
			return fmt.Errorf("extractor: write output at offset %d: %w", offset, err)
		}
		rep.Verbose("wrote peb %d -> lnum %d (offset %d)", peb, vid.LNum, offset)
		extracted++
	}

	if extracted == 0 {
		return fmt.Errorf("extractor: volume %d (%q) has no data pebs in the image", volIndex, volName)
	}
	return nil
}
