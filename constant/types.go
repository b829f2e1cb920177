package constant

const (
	SectorSize = 512
)

const (
	MaxRequestSectors = 1024 // 512KB
)
