// Package extractor implements the companion tool to internal/writer:
// given a previously written UBI image file, it locates a volume by
// index or name and reconstructs its logical data into a plain output
// file. It never opens an MTD device; the image is an ordinary file.
package extractor

// Config is the extractor's fully-validated set of parameters.
type Config struct {
	PEBSize int

	// VolIndex selects a volume by its vtbl slot, [0, ubi.MaxVolumes).
	// Set to -1 when VolName should be used instead; exactly one of
	// the two is active per spec.md §6.
	VolIndex int
	VolName  string

	// SkipBad makes header/CRC validation failures during extraction
	// skip the offending PEB instead of aborting the run.
	SkipBad bool
}

// byName reports whether this Config resolves its target volume by
// name rather than by vtbl slot index.
func (c Config) byName() bool {
	return c.VolIndex < 0
}
