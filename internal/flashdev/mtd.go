package flashdev

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Standard Linux MTD character-device ioctl numbers (see
// include/uapi/mtd/mtd-abi.h). Kept as untyped constants rather than
// pulled from a generated binding, the same way
// other_examples/u-root-u-bmc__mtd.go and
// other_examples/platinasystems-goes__flash_eraseall.go inline them.
const (
	memGetInfo     = 0x80204d01
	memErase       = 0x40084d02
	memWriteOOB    = 0xc0104d03
	memGetBadBlock = 0x40084d0b
	memSetBadBlock = 0x40084d0c
)

type mtdInfoUser struct {
	Type      uint8
	_         [3]uint8
	Flags     uint32
	Size      uint32
	EraseSize uint32
	WriteSize uint32
	OOBSize   uint32
	_         uint32
	_         uint32
}

type eraseInfoUser struct {
	Start  uint32
	Length uint32
}

type mtdOOBBuf struct {
	Start  uint32
	Length uint32
	Ptr    uintptr
}

// MTD is a Device backed by a real /dev/mtdN character device, driven
// with the same MEMGETINFO/MEMERASE/MEMWRITEOOB/MEMGETBADBLOCK/
// MEMSETBADBLOCK ioctls as the reference implementations it is grounded
// on, through golang.org/x/sys/unix instead of raw syscall.Syscall.
type MTD struct {
	f  *os.File
	geo Geometry
}

// Open opens the MTD character device at path and queries its geometry.
func Open(path string) (*MTD, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("flashdev: open %s: %w", path, err)
	}
	m := &MTD{f: f}
	var info mtdInfoUser
	if err := ioctl(f, memGetInfo, unsafe.Pointer(&info)); err != nil {
		f.Close()
		return nil, fmt.Errorf("flashdev: MEMGETINFO %s: %w", path, err)
	}
	m.geo = Geometry{
		EBSize:    int(info.EraseSize),
		MinIOSize: int(info.WriteSize),
		Size:      int(info.Size),
	}
	return m, nil
}

func (m *MTD) Info() (Geometry, error) {
	return m.geo, nil
}

func (m *MTD) IsBad(peb int) (bool, error) {
	off := int64(peb) * int64(m.geo.EBSize)
	// MEMGETBADBLOCK reports "is bad" through the ioctl's return code,
	// not through any output buffer field.
	ret, err := ioctlRet(m.f, memGetBadBlock, unsafe.Pointer(&off))
	if err != nil {
		return false, fmt.Errorf("flashdev: MEMGETBADBLOCK peb %d: %w", peb, err)
	}
	return ret > 0, nil
}

func (m *MTD) Erase(peb int) error {
	ei := eraseInfoUser{Start: uint32(peb * m.geo.EBSize), Length: uint32(m.geo.EBSize)}
	if err := ioctl(m.f, memErase, unsafe.Pointer(&ei)); err != nil {
		return fmt.Errorf("flashdev: erase peb %d: %w", peb, err)
	}
	return nil
}

func (m *MTD) WritePage(peb, pageOffset int, data, oob []byte) error {
	base := int64(peb)*int64(m.geo.EBSize) + int64(pageOffset)
	if data != nil {
		if _, err := m.f.WriteAt(data, base); err != nil {
			return fmt.Errorf("flashdev: write page at peb %d offset %d: %w", peb, pageOffset, err)
		}
	}
	if oob != nil {
		buf := mtdOOBBuf{Start: uint32(base), Length: uint32(len(oob)), Ptr: uintptr(unsafe.Pointer(&oob[0]))}
		if err := ioctl(m.f, memWriteOOB, unsafe.Pointer(&buf)); err != nil {
			return fmt.Errorf("flashdev: write oob at peb %d offset %d: %w", peb, pageOffset, err)
		}
	}
	return nil
}

func (m *MTD) MarkBad(peb int) error {
	off := int64(peb) * int64(m.geo.EBSize)
	if err := ioctl(m.f, memSetBadBlock, unsafe.Pointer(&off)); err != nil {
		return fmt.Errorf("flashdev: mark bad peb %d: %w", peb, err)
	}
	return nil
}

func (m *MTD) Close() error {
	return m.f.Close()
}

func ioctl(f *os.File, req uintptr, arg unsafe.Pointer) error {
	_, err := ioctlRet(f, req, arg)
	return err
}

func ioctlRet(f *os.File, req uintptr, arg unsafe.Pointer) (uintptr, error) {
	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return r1, errno
	}
	return r1, nil
}
