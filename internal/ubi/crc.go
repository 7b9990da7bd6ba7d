package ubi

import "hash/crc32"

// crc computes the UBI on-flash CRC-32 of b, seeded with CRC32Init
// rather than the usual zero starting state. UBI reuses the IEEE
// polynomial but never the IEEE package's zero seed, so the header and
// record CRCs here never equal crc32.ChecksumIEEE(b).
func crc(b []byte) uint32 {
	return crc32.Update(CRC32Init, crc32.IEEETable, b)
}
