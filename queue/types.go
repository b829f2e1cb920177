package queue

import (
	"container/list"
	"io"

	"github.com/nnsgmsone/damrey/logger"
	"github.com/tallendev/test-stuff/device"
	"github.com/tallendev/test-stuff/elevator"
)

const (
	S = iota // submit
	D        // device done
	F        // flush
)

/*
Queue schedules block requests against a single device. Submitted requests
wait under the queue's elevator until the device worker is free; adjacent
requests of the same kind coalesce while they wait. Every accepted request
reports its outcome through Wait. Queue is thread-safe. Submitting after
Close is the host's bug.
*/
type Queue interface {
	Close() error

	Flush() error
	Sectors() int64
	Submit(*elevator.Request) error

	ReadAt(int64, []byte) error
	WriteAt(int64, []byte) error
}

type Config struct {
	Path      string // backing file, empty for a volatile device
	Sectors   int64
	Elevator  string
	LogWriter io.Writer
}

type message struct {
	t   int
	err error
	rq  *elevator.Request
	rch chan error
}

type queue struct {
	n    int  // requests under elevator control
	busy bool // device worker occupied
	elv  elevator.Elevator
	dev  device.Device
	log  logger.Log
	dq   *list.List                  // dispatch fifo, elevator to worker
	fs   []chan error                // flushes waiting for the queue to drain
	smp  map[int64]*elevator.Request // pending requests by start sector
	emp  map[int64]*elevator.Request // pending requests by end sector
	ch   chan error
	mch  chan *message
	dch  chan *elevator.Request
}
