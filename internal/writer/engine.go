// Package writer implements the image-writing engine: given a flash
// device, a resolved Config, and an optional payload Source, it erases
// a PEB window and writes either a raw payload or a full UBI image
// into it, retrying past bad PEBs as it goes.
package writer

import (
	"fmt"

	"github.com/southpole/ubiflash/internal/bytesource"
	"github.com/southpole/ubiflash/internal/flashdev"
)

// Reporter is the narrow progress/diagnostic surface the engine needs;
// internal/cliutil.Logger satisfies it structurally, but the engine
// never imports cliutil so it stays usable from tests with no CLI
// dependency at all.
type Reporter interface {
	Info(format string, args ...any)
	Verbose(format string, args ...any)
	Dot()
	Progress(prefix string, cur, max int)
}

// nopReporter discards everything; used when callers pass a nil
// Reporter.
type nopReporter struct{}

func (nopReporter) Info(string, ...any)       {}
func (nopReporter) Verbose(string, ...any)    {}
func (nopReporter) Dot()                      {}
func (nopReporter) Progress(string, int, int) {}

// Run erases the configured PEB window, then writes the payload (or,
// in ModeUBI, the full image) into it. imageSize is the payload's
// known total length, or 0 when no fixed length was established —
// either because there is no payload at all, or because the payload
// is an unbounded stdin stream. src may be nil when there is no
// payload at all.
//
// Run's success criterion mirrors original_source/imagewrite.c's
// closing check literally: the run is considered to have succeeded if
// either the entire payload was delivered, or no fixed payload length
// was ever established in the first place — even if the write loop
// exited early for some other reason. Run reports failure only when a
// known-size payload is not fully delivered, whether because the
// window ran out of PEBs or because block generation stopped with an
// error.
func Run(dev flashdev.Device, geo flashdev.Geometry, cfg Config, src *bytesource.Source, imageSize int64, rep Reporter) error {
	if rep == nil {
		rep = nopReporter{}
	}

	if err := erasePass(dev, cfg, rep); err != nil {
		return err
	}

	// Supplemented feature: a run with nothing at all to write (no
	// payload, not stdin, not a UBI image) is an erase-only request
	// and is done once the erase pass completes.
	if imageSize == 0 && src == nil && cfg.Mode != ModeUBI {
		return nil
	}

	st := &State{}
	buf := make([]byte, geo.EBSize)
	total := cfg.WindowPEBs()
	peb := cfg.StartPEB

	for peb < cfg.EndPEB {
		dataLen, err := genBlock(geo, cfg, st, src, buf)
		if err != nil {
			rep.Info("stopping: %v", err)
			break
		}

		for {
			if peb >= cfg.EndPEB {
				break
			}
			rep.Progress("Writing ", peb-cfg.StartPEB+1, total)
			rep.Verbose("writing peb %d (%d bytes)", peb, dataLen)

			werr := writeEB(dev, peb, geo.MinIOSize, dataLen, buf, cfg.CleanMarkers)
			if werr == nil {
				rep.Dot()
				peb++
				break
			}

			rep.Info("write failed at peb %d: %v, retrying", peb, werr)
			if eerr := dev.Erase(peb); eerr != nil {
				rep.Info("erase of failed peb %d also failed: %v", peb, eerr)
			}
			if dataLen%geo.EBSize == 0 {
				if berr := dev.MarkBad(peb); berr != nil {
					rep.Info("marking peb %d bad failed: %v", peb, berr)
				}
			}
			peb++
		}
	}

	delivered := imageSize == 0 || src == nil || src.Remaining() == 0
	if !delivered {
		return fmt.Errorf("writer: %d payload bytes left unwritten", src.Remaining())
	}
	return nil
}

// erasePass erases every non-bad PEB in the configured window. A bad
// PEB is skipped and noted; an erase failure on a PEB that was not
// already known bad is reported but does not abort the pass, matching
// original_source/imagewrite.c's best-effort erase loop.
func erasePass(dev flashdev.Device, cfg Config, rep Reporter) error {
	total := cfg.WindowPEBs()
	for peb := cfg.StartPEB; peb < cfg.EndPEB; peb++ {
		rep.Progress("Erasing ", peb-cfg.StartPEB+1, total)

		bad, err := dev.IsBad(peb)
		if err != nil {
			rep.Info("checking bad-block state of peb %d failed: %v", peb, err)
		} else if bad {
			rep.Verbose("skipping bad peb %d", peb)
			continue
		}

		if err := dev.Erase(peb); err != nil {
			rep.Info("erasing peb %d failed: %v", peb, err)
		}
		rep.Dot()
	}
	return nil
}
