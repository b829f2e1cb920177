package errmsg

import "errors"

var (
	Closed          = errors.New("queue closed")
	Misaligned      = errors.New("misaligned request")
	OutOfRange      = errors.New("out of range")
	TooLong         = errors.New("request too long")
	QueueNotEmpty   = errors.New("queue not empty")
	UnknownElevator = errors.New("unknown elevator")
)
