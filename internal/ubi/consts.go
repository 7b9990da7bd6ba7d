// Package ubi encodes and decodes the on-flash UBI layout: erase-count
// headers, volume-identifier headers, and volume-table records. It is a
// pure, allocation-light codec with no knowledge of any flash device or
// file; callers (internal/writer, internal/extractor) own the bytes.
package ubi

// Magic numbers and structural constants of the UBI on-flash format, as
// used by the Linux UBI subsystem and the tools built on top of it.
const (
	ECHdrMagic  uint32 = 0x55424923 // "UBI#"
	VIDHdrMagic uint32 = 0x55424921 // "UBI!"

	Version uint8 = 1

	// CRC32Init is the non-zero seed every UBI on-flash CRC is computed
	// with, rather than the zero seed crc32.ChecksumIEEE starts from.
	CRC32Init uint32 = 0xFFFFFFFF

	// MaxVolumes is the number of records in a volume table.
	MaxVolumes = 128

	// VolNameMax is the largest number of bytes a volume name may occupy.
	VolNameMax = 127

	// LayoutVolumeID is the reserved volume id carrying the volume table.
	LayoutVolumeID uint32 = 0x7FFFEFFF

	// LayoutVolumeEBs is the number of PEBs (redundant copies) the
	// layout volume always occupies.
	LayoutVolumeEBs = 2

	// ECHdrSize is the on-flash size of an erase-count header.
	ECHdrSize = 64
	// ecHdrCRCSize is the number of leading bytes of an EC header the
	// CRC covers (everything but the trailing hdr_crc field).
	ecHdrCRCSize = ECHdrSize - 4

	// VIDHdrSize is the on-flash size of a volume-identifier header.
	VIDHdrSize = 64
	// vidHdrCRCSize is the number of leading bytes of a VID header the
	// CRC covers.
	vidHdrCRCSize = VIDHdrSize - 4

	// VtblRecordSize is the on-flash size of one volume-table record.
	VtblRecordSize = 172
	// vtblRecordCRCSize is the number of leading bytes of a vtbl record
	// the CRC covers.
	vtblRecordCRCSize = VtblRecordSize - 4
)

// Volume types, as carried in a VID header's vol_type field and a vtbl
// record's vol_type field.
const (
	VolDynamic uint8 = 1
	VolStatic  uint8 = 2
)

// Compatibility flags for the layout volume's VID headers.
const (
	LayoutVolumeCompat uint8 = 0x01
)

// CleanMarker is the 8-byte JFFS2 "clean" tag written to a page's OOB
// area when the writer's -c option is set.
var CleanMarker = [8]byte{0x19, 0x85, 0x20, 0x03, 0x00, 0x00, 0x00, 0x08}
