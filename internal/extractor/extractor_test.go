package extractor

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/southpole/ubiflash/internal/bytesource"
	"github.com/southpole/ubiflash/internal/flashdev"
	"github.com/southpole/ubiflash/internal/writer"
)

// buildImage writes a small UBI image using internal/writer into a
// Fake device, then serializes every PEB to a plain file the way a
// real flash dump would look, so extractor tests exercise the same
// file-shaped input a real workflow would produce.
func buildImage(t *testing.T, payload []byte, volName string, volLEBs int) (string, flashdev.Geometry) {
	t.Helper()
	geo := flashdev.Geometry{EBSize: 4096, MinIOSize: 512, Size: 4096 * 16}
	dev := flashdev.NewFake(geo)

	f, err := os.CreateTemp(t.TempDir(), "payload")
	require.NoError(t, err)
	_, err = f.Write(payload)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	src, err := bytesource.FromFile(f, 0, 0)
	require.NoError(t, err)

	cfg := writer.Config{
		Mode:     writer.ModeUBI,
		VolID:    0,
		VolName:  volName,
		VolLEBs:  volLEBs,
		StartPEB: 0,
		EndPEB:   geo.PEBCount(),
	}
	require.NoError(t, writer.Run(dev, geo, cfg, src, int64(len(payload)), nil))

	imgPath := f.Name() + ".img"
	img, err := os.Create(imgPath)
	require.NoError(t, err)
	for peb := 0; peb < geo.PEBCount(); peb++ {
		_, err := img.Write(dev.PEB(peb))
		require.NoError(t, err)
	}
	require.NoError(t, img.Close())

	return imgPath, geo
}

func TestRunExtractsByName(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAA}, 6000) // spans two LEBs of the 3072-byte test geometry
	imgPath, geo := buildImage(t, payload, "rootfs", 8)

	img, err := os.Open(imgPath)
	require.NoError(t, err)
	defer img.Close()

	outPath := imgPath + ".out"
	out, err := os.Create(outPath)
	require.NoError(t, err)

	cfg := Config{PEBSize: geo.EBSize, VolIndex: -1, VolName: "rootfs"}
	err = Run(img, out, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, out.Close())

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.True(t, len(got) >= len(payload))
	require.Equal(t, payload, got[:len(payload)])
}

func TestRunExtractsByIndex(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 1000)
	imgPath, geo := buildImage(t, payload, "data", 4)

	img, err := os.Open(imgPath)
	require.NoError(t, err)
	defer img.Close()

	outPath := imgPath + ".out"
	out, err := os.Create(outPath)
	require.NoError(t, err)

	cfg := Config{PEBSize: geo.EBSize, VolIndex: 0, VolName: ""}
	err = Run(img, out, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, out.Close())

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, payload, got[:len(payload)])
}

func TestRunUnknownVolumeNameFails(t *testing.T) {
	payload := bytes.Repeat([]byte{0x01}, 100)
	imgPath, geo := buildImage(t, payload, "rootfs", 4)

	img, err := os.Open(imgPath)
	require.NoError(t, err)
	defer img.Close()

	out, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)

	cfg := Config{PEBSize: geo.EBSize, VolIndex: -1, VolName: "nope"}
	err = Run(img, out, cfg, nil)
	require.Error(t, err)
}

func TestRunRejectsBadImageSize(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "badimg")
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)

	out, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)

	cfg := Config{PEBSize: 4096, VolIndex: 0}
	err = Run(f, out, cfg, nil)
	require.Error(t, err)
}
