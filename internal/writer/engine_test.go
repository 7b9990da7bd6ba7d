package writer

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/southpole/ubiflash/internal/bytesource"
	"github.com/southpole/ubiflash/internal/flashdev"
	"github.com/southpole/ubiflash/internal/ubi"
)

func testGeo() flashdev.Geometry {
	return flashdev.Geometry{EBSize: 4096, MinIOSize: 512, Size: 4096 * 32}
}

func writeTempPayload(t *testing.T, n int) *bytesource.Source {
	t.Helper()
	payload := bytes.Repeat([]byte{0xAB}, n)
	f := newTempFile(t, payload)
	src, err := bytesource.FromFile(f, 0, 0)
	require.NoError(t, err)
	return src
}

func TestRunRawModeWritesPayload(t *testing.T) {
	geo := testGeo()
	dev := flashdev.NewFake(geo)
	cfg := Config{Mode: ModeRaw, StartPEB: 0, EndPEB: 4}

	src := writeTempPayload(t, geo.EBSize*2+10)
	err := Run(dev, geo, cfg, src, int64(geo.EBSize*2+10), nil)
	require.NoError(t, err)

	require.Equal(t, byte(0xAB), dev.PEB(0)[0])
	require.Equal(t, byte(0xAB), dev.PEB(1)[0])
	require.Equal(t, byte(0xAB), dev.PEB(2)[0])
	require.Equal(t, byte(0xFF), dev.PEB(2)[11])
	require.Equal(t, byte(0xFF), dev.PEB(3)[0])
}

func TestRunRawModeWindowTooSmallFails(t *testing.T) {
	geo := testGeo()
	dev := flashdev.NewFake(geo)
	cfg := Config{Mode: ModeRaw, StartPEB: 0, EndPEB: 2}

	src := writeTempPayload(t, geo.EBSize*3)
	err := Run(dev, geo, cfg, src, int64(geo.EBSize*3), nil)
	require.Error(t, err)
}

func TestRunEraseOnlySucceeds(t *testing.T) {
	geo := testGeo()
	dev := flashdev.NewFake(geo)
	cfg := Config{Mode: ModeRaw, StartPEB: 0, EndPEB: 4}

	err := Run(dev, geo, cfg, nil, 0, nil)
	require.NoError(t, err)
	require.Equal(t, 1, dev.EraseCount(0))
}

func TestRunUBIModeWritesLayoutAndData(t *testing.T) {
	geo := testGeo()
	dev := flashdev.NewFake(geo)
	cfg := Config{
		Mode:     ModeUBI,
		VolID:    0,
		VolName:  "rootfs",
		VolLEBs:  3,
		StartPEB: 0,
		EndPEB:   8,
	}

	src := writeTempPayload(t, 100)
	err := Run(dev, geo, cfg, src, 100, nil)
	require.NoError(t, err)

	ec, err := ubi.DecodeECHeader(dev.PEB(0)[:ubi.ECHdrSize])
	require.NoError(t, err)
	require.Equal(t, ubi.Version, ec.Version)

	vid, err := ubi.DecodeVIDHeader(dev.PEB(0)[geo.MinIOSize : geo.MinIOSize+ubi.VIDHdrSize])
	require.NoError(t, err)
	require.NotNil(t, vid)
	require.Equal(t, ubi.LayoutVolumeID, vid.VolID)

	dataPEB := dev.PEB(ubi.LayoutVolumeEBs)
	vid2, err := ubi.DecodeVIDHeader(dataPEB[geo.MinIOSize : geo.MinIOSize+ubi.VIDHdrSize])
	require.NoError(t, err)
	require.NotNil(t, vid2)
	require.Equal(t, uint32(0), vid2.VolID)
	require.Equal(t, byte(0xAB), dataPEB[geo.MinIOSize*2])
}

func TestRunRetriesOnWriteFailure(t *testing.T) {
	geo := testGeo()
	dev := flashdev.NewFake(geo)
	cfg := Config{Mode: ModeRaw, StartPEB: 0, EndPEB: 4}

	failed := false
	dev.FailWrite = func(peb, pageOffset int) bool {
		if peb == 0 && !failed {
			failed = true
			return true
		}
		return false
	}

	src := writeTempPayload(t, geo.EBSize)
	err := Run(dev, geo, cfg, src, int64(geo.EBSize), nil)
	require.NoError(t, err)

	bad, err := dev.IsBad(0)
	require.NoError(t, err)
	require.True(t, bad)
	require.Equal(t, byte(0xAB), dev.PEB(1)[0])
}

func newTempFile(t *testing.T, content []byte) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "payload")
	require.NoError(t, err)
	_, err = f.Write(content)
	require.NoError(t, err)
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
