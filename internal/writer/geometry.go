package writer

import "fmt"

// ResolveVolLEBs applies spec.md's three-way -S convention: 0 reserves
// 20 spare PEBs for bad-block relocation, a negative value -k reserves
// k (k >= 2), and a positive value is taken verbatim. totalLEBs is the
// window's PEB count minus the layout volume's reserved PEBs.
func ResolveVolLEBs(requested int, totalLEBs int) (int, error) {
	var volLEBs int
	switch {
	case requested == 0:
		volLEBs = totalLEBs - 20
	case requested < 0:
		k := -requested
		if k < 2 {
			return 0, fmt.Errorf("writer: -S negative value must be <= -2, got -%d", k)
		}
		volLEBs = totalLEBs - k
	default:
		volLEBs = requested
	}
	if volLEBs < 0 || volLEBs > totalLEBs {
		return 0, fmt.Errorf("writer: volume LEBs (%d) does not fit into the %d allocated blocks", volLEBs, totalLEBs)
	}
	return volLEBs, nil
}
