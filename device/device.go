package device

import (
	"github.com/tallendev/test-stuff/constant"
	"github.com/tallendev/test-stuff/errmsg"
	"golang.org/x/sys/unix"
)

// New opens a file-backed device with the given capacity, creating and
// sizing the file as needed. Sectors are served from a shared mapping,
// Flush syncs it back.
func New(path string, sectors int64) (*device, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0664)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)
	if err := unix.Ftruncate(fd, sectors*constant.SectorSize); err != nil {
		return nil, err
	}
	buf, err := unix.Mmap(fd, 0, int(sectors*constant.SectorSize), unix.PROT_WRITE|unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &device{mm: true, cnt: sectors, buf: buf}, nil
}

// NewMem builds a volatile device for tests and scratch use.
func NewMem(sectors int64) *device {
	return &device{cnt: sectors, buf: make([]byte, sectors*constant.SectorSize)}
}

func (d *device) Close() error {
	if !d.mm {
		return nil
	}
	return unix.Munmap(d.buf)
}

func (d *device) Flush() error {
	if !d.mm {
		return nil
	}
	return unix.Msync(d.buf, unix.MS_SYNC)
}

func (d *device) Read(sector int64, buf []byte) error {
	o, err := d.span(sector, buf)
	if err != nil {
		return err
	}
	copy(buf, d.buf[o:])
	return nil
}

func (d *device) Write(sector int64, buf []byte) error {
	o, err := d.span(sector, buf)
	if err != nil {
		return err
	}
	copy(d.buf[o:], buf)
	return nil
}

func (d *device) span(sector int64, buf []byte) (int64, error) {
	// bound the sector before scaling it, the product can wrap
	if sector < 0 || sector >= d.cnt {
		return 0, errmsg.OutOfRange
	}
	o := sector * constant.SectorSize
	if o+int64(len(buf)) > int64(len(d.buf)) {
		return 0, errmsg.OutOfRange
	}
	return o, nil
}
