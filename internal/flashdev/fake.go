package flashdev

import "fmt"

// Fake is an in-memory Device used by engine tests and by the writer/
// extractor round-trip tests: it never touches a real NAND, so CI needs
// no root privileges and no /dev/mtdN.
type Fake struct {
	Geo Geometry

	pebs [][]byte
	bad  map[int]bool

	erased  map[int]int // erase count per peb, for assertions
	// FailWrite, if set, is called before every WritePage; returning
	// true makes that single page write fail, simulating a physical
	// program failure.
	FailWrite func(peb, pageOffset int) bool

	closed bool
}

// NewFake allocates a Fake device of the given geometry, with every PEB
// in the erased (all-0xFF) state.
func NewFake(geo Geometry) *Fake {
	f := &Fake{
		Geo:    geo,
		pebs:   make([][]byte, geo.PEBCount()),
		bad:    make(map[int]bool),
		erased: make(map[int]int),
	}
	for i := range f.pebs {
		f.pebs[i] = make([]byte, geo.EBSize)
		for j := range f.pebs[i] {
			f.pebs[i][j] = 0xFF
		}
	}
	return f
}

// MarkBadInitially seeds peb as already bad, before any run starts.
func (f *Fake) MarkBadInitially(peb int) {
	f.bad[peb] = true
}

// PEB returns the raw current contents of peb, for test assertions.
func (f *Fake) PEB(peb int) []byte {
	return f.pebs[peb]
}

// EraseCount returns how many times Erase(peb) has succeeded.
func (f *Fake) EraseCount(peb int) int {
	return f.erased[peb]
}

func (f *Fake) Info() (Geometry, error) {
	return f.Geo, nil
}

func (f *Fake) IsBad(peb int) (bool, error) {
	if peb < 0 || peb >= len(f.pebs) {
		return false, fmt.Errorf("flashdev: peb %d out of range", peb)
	}
	return f.bad[peb], nil
}

func (f *Fake) Erase(peb int) error {
	if peb < 0 || peb >= len(f.pebs) {
		return fmt.Errorf("flashdev: peb %d out of range", peb)
	}
	for i := range f.pebs[peb] {
		f.pebs[peb][i] = 0xFF
	}
	f.erased[peb]++
	return nil
}

func (f *Fake) WritePage(peb, pageOffset int, data, oob []byte) error {
	if peb < 0 || peb >= len(f.pebs) {
		return fmt.Errorf("flashdev: peb %d out of range", peb)
	}
	if f.FailWrite != nil && f.FailWrite(peb, pageOffset) {
		return fmt.Errorf("flashdev: simulated write failure at peb %d offset %d", peb, pageOffset)
	}
	if data != nil {
		copy(f.pebs[peb][pageOffset:pageOffset+len(data)], data)
	}
	// oob bytes (the JFFS2 clean marker) are not modeled as readable
	// flash content; the fake discards them.
	return nil
}

func (f *Fake) MarkBad(peb int) error {
	if peb < 0 || peb >= len(f.pebs) {
		return fmt.Errorf("flashdev: peb %d out of range", peb)
	}
	f.bad[peb] = true
	return nil
}

func (f *Fake) Close() error {
	f.closed = true
	return nil
}
