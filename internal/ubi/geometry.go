package ubi

// LEBSize derives the logical-eraseblock size of a PEB given its data
// offset: the portion of a PEB not consumed by the EC/VID headers.
func LEBSize(ebSize, dataOffset int) int {
	return ebSize - dataOffset
}
