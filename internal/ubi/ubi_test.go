package ubi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestECHeaderRoundTrip(t *testing.T) {
	want := ECFields{Version: Version, VIDHdrOffset: 2048, DataOffset: 4096, ImageSeq: 0xdeadbeef}
	b := EncodeECHeader(want)
	require.Len(t, b, ECHdrSize)

	got, err := DecodeECHeader(b)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestECHeaderCRCCoversExcludingCRCField(t *testing.T) {
	b := EncodeECHeader(ECFields{Version: Version, VIDHdrOffset: 2048, DataOffset: 4096, ImageSeq: 1})
	want := crc(b[:ecHdrCRCSize])
	got := uint32(b[60])<<24 | uint32(b[61])<<16 | uint32(b[62])<<8 | uint32(b[63])
	assert.Equal(t, want, got)
}

func TestECHeaderBadMagic(t *testing.T) {
	b := EncodeECHeader(ECFields{Version: Version})
	b[0] ^= 0xFF
	_, err := DecodeECHeader(b)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, BadMagic, verr.Kind)
}

func TestECHeaderBadCRC(t *testing.T) {
	b := EncodeECHeader(ECFields{Version: Version})
	b[30] ^= 0xFF
	_, err := DecodeECHeader(b)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, BadCRC, verr.Kind)
}

func TestVIDHeaderRoundTrip(t *testing.T) {
	want := VIDFields{Version: Version, VolType: VolDynamic, VolID: 7, LNum: 3}
	b := EncodeVIDHeader(want)
	require.Len(t, b, VIDHdrSize)

	got, err := DecodeVIDHeader(b)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestVIDHeaderEmpty(t *testing.T) {
	b := make([]byte, VIDHdrSize)
	for i := range b {
		b[i] = 0xFF
	}
	got, err := DecodeVIDHeader(b)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVtblRecordRoundTrip(t *testing.T) {
	want := VtblFields{ReservedPEBs: 100, Alignment: 1, VolType: VolDynamic, Name: "rootfs"}
	b, err := EncodeVtblRecord(want)
	require.NoError(t, err)
	require.Len(t, b, VtblRecordSize)

	got, err := DecodeVtblRecord(b)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVtblRecordEmptySlotIsValid(t *testing.T) {
	b, err := EncodeVtblRecord(VtblFields{})
	require.NoError(t, err)

	got, err := DecodeVtblRecord(b)
	require.NoError(t, err)
	assert.Empty(t, got.Name)
}

func TestVtblRecordNameTooLong(t *testing.T) {
	long := make([]byte, VolNameMax+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := EncodeVtblRecord(VtblFields{Name: string(long)})
	assert.Error(t, err)
}

func TestLEBSize(t *testing.T) {
	assert.Equal(t, 126976, LEBSize(131072, 4096))
}
