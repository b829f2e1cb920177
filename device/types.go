package device

type Device interface {
	Close() error
	Flush() error
	Sectors() int64
	Read(int64, []byte) error
	Write(int64, []byte) error
}

type device struct {
	mm  bool // mapped from a file
	cnt int64
	buf []byte
}

func (d *device) Sectors() int64 {
	return d.cnt
}
