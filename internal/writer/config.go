package writer

// Mode selects between a raw payload dump and a full UBI-formatted
// image.
type Mode int

const (
	ModeRaw Mode = iota
	ModeUBI
)

// Config is the writer's fully-validated, fully-resolved set of
// parameters: by the time a Config reaches the engine, -S's three-way
// convention has already been resolved to a concrete VolLEBs (see
// ResolveVolLEBs) and every geometry precondition in spec.md §4.3 has
// already been checked.
type Config struct {
	Mode         Mode
	CleanMarkers bool

	// VolID, VolName, VolLEBs are only meaningful in ModeUBI.
	VolID   uint32
	VolName string
	VolLEBs int

	// StartPEB, EndPEB bound the half-open PEB window [StartPEB, EndPEB).
	StartPEB int
	EndPEB   int
}

// WindowPEBs is the number of PEBs in the configured window.
func (c Config) WindowPEBs() int {
	return c.EndPEB - c.StartPEB
}
