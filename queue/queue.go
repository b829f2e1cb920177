package queue

import (
	"container/list"
	"os"

	"github.com/nnsgmsone/damrey/logger"
	"github.com/tallendev/test-stuff/constant"
	"github.com/tallendev/test-stuff/device"
	"github.com/tallendev/test-stuff/elevator"
	"github.com/tallendev/test-stuff/errmsg"
)

func DefaultConfig() Config {
	return Config{
		Sectors:   1 << 16,
		Elevator:  "greedy",
		LogWriter: os.Stderr,
	}
}

// Open builds the device named by the configuration and runs a queue over
// it. The elevator must have been registered.
func Open(cfg Config) (*queue, error) {
	dev, err := newDevice(cfg)
	if err != nil {
		return nil, err
	}
	q, err := New(dev, cfg)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return q, nil
}

// New runs a queue over a host-supplied device. Close closes the device.
func New(dev device.Device, cfg Config) (*queue, error) {
	elv, err := elevator.New(cfg.Elevator)
	if err != nil {
		return nil, err
	}
	q := &queue{
		elv: elv,
		dev: dev,
		dq:  list.New(),
		log: logger.New(cfg.LogWriter, "iosched"),
		smp: make(map[int64]*elevator.Request),
		emp: make(map[int64]*elevator.Request),
		ch:  make(chan error),
		mch: make(chan *message, 1024),
		dch: make(chan *elevator.Request, 1),
	}
	go q.run()
	go q.worker()
	return q, nil
}

// Close drains every pending request, tears the elevator down and closes
// the device. An elevator that still holds requests at exit is reported
// and the error returned.
func (q *queue) Close() error {
	q.ch <- nil
	err := <-q.ch
	if derr := q.dev.Close(); err == nil {
		err = derr
	}
	return err
}

// Flush waits until the queue is drained and the device flushed.
func (q *queue) Flush() error {
	rch := make(chan error)
	q.mch <- &message{t: F, rch: rch}
	return <-rch
}

func (q *queue) Sectors() int64 {
	return q.dev.Sectors()
}

// Submit hands a request to the elevator. A submission error means the
// request was not accepted; accepted requests report through Wait.
func (q *queue) Submit(rq *elevator.Request) error {
	if n := len(rq.Buffer()); n == 0 || n%constant.SectorSize != 0 {
		return errmsg.Misaligned
	}
	if rq.Sectors() > constant.MaxRequestSectors {
		return errmsg.TooLong
	}
	if rq.Sector() < 0 || rq.Sector() >= q.dev.Sectors() || rq.End() > q.dev.Sectors() {
		return errmsg.OutOfRange
	}
	q.mch <- &message{t: S, rq: rq}
	return nil
}

func (q *queue) ReadAt(sector int64, buf []byte) error {
	rq := elevator.NewRequest(elevator.Read, sector, buf)
	if err := q.Submit(rq); err != nil {
		return err
	}
	return rq.Wait()
}

func (q *queue) WriteAt(sector int64, buf []byte) error {
	rq := elevator.NewRequest(elevator.Write, sector, buf)
	if err := q.Submit(rq); err != nil {
		return err
	}
	return rq.Wait()
}

// Accept is the elevator's dispatch sink. Dispatched requests leave the
// elevator's control and queue up for the device worker in dispatch order.
func (q *queue) Accept(rq *elevator.Request) {
	q.untrack(rq)
	q.n--
	q.dq.PushBack(rq)
}

func (q *queue) run() {
	for {
		select {
		case <-q.ch:
			q.ch <- q.close()
			return
		case m := <-q.mch:
			q.process(m)
		}
	}
}

func (q *queue) worker() {
	for rq := range q.dch {
		err := q.exec(rq)
		rq.Complete(err)
		q.mch <- &message{t: D, rq: rq, err: err}
	}
}

func (q *queue) process(m *message) {
	switch m.t {
	case S:
		q.insert(m.rq)
		q.issue(false)
	case D:
		q.done(m)
		q.issue(false)
		q.settle()
	case F:
		q.fs = append(q.fs, m.rch)
		q.settle()
	}
}

// insert merges the arriving request with a pending neighbor when their
// spans touch, otherwise adds it to the elevator. A request that grew is
// offered its new neighbor once, so runs of adjacent requests collapse.
func (q *queue) insert(rq *elevator.Request) {
	if prv, ok := q.emp[rq.Sector()]; ok && q.mergeable(prv, rq) {
		q.untrack(prv)
		prv.Absorb(rq)
		q.track(prv)
		if lat := q.elv.Latter(prv); lat != nil && q.adjacent(prv, lat) {
			q.absorb(prv, lat)
		}
		return
	}
	if nxt, ok := q.smp[rq.End()]; ok && q.mergeable(rq, nxt) {
		q.n++
		q.elv.Add(rq)
		q.track(rq)
		q.absorb(rq, nxt)
		if fmr := q.elv.Former(rq); fmr != nil && q.adjacent(fmr, rq) {
			q.absorb(fmr, rq)
		}
		return
	}
	q.n++
	q.elv.Add(rq)
	q.track(rq)
}

// absorb folds a tracked request into its tracked neighbor.
func (q *queue) absorb(w, l *elevator.Request) {
	q.elv.Merged(l)
	q.untrack(l)
	q.untrack(w)
	w.Absorb(l)
	q.track(w)
	q.n--
}

// issue keeps the worker fed: one request at a time, pulled from the
// elevator only when the dispatch fifo is empty.
func (q *queue) issue(force bool) {
	if q.busy {
		return
	}
	if q.dq.Len() == 0 {
		q.elv.Dispatch(q, force)
	}
	if e := q.dq.Front(); e != nil {
		q.dq.Remove(e)
		q.busy = true
		q.dch <- e.Value.(*elevator.Request)
	}
}

func (q *queue) done(m *message) {
	q.busy = false
	if m.err != nil {
		q.log.Errorf("request at %v failed: %v\n", m.rq.Sector(), m.err)
	}
}

// settle answers waiting flushes once nothing is pending.
func (q *queue) settle() {
	if len(q.fs) == 0 || !q.empty() {
		return
	}
	err := q.dev.Flush()
	for _, rch := range q.fs {
		rch <- err
	}
	q.fs = q.fs[:0]
}

// close drains the queue, forcing dispatches until the elevator is empty,
// then tears the elevator down. Messages that raced in are answered with
// Closed.
func (q *queue) close() error {
	for !q.empty() {
		q.issue(true)
		if !q.busy {
			break // the elevator holds requests it will not give up
		}
		if m := <-q.mch; m.t == D {
			q.done(m)
		} else {
			q.reject(m)
		}
	}
	q.settle()
	for _, rch := range q.fs {
		rch <- errmsg.Closed
	}
	q.fs = q.fs[:0]
	for len(q.mch) > 0 {
		q.reject(<-q.mch)
	}
	err := q.elv.Exit()
	if err != nil {
		q.log.Errorf("elevator exit failed: %v\n", err)
	}
	close(q.dch)
	return err
}

func (q *queue) reject(m *message) {
	switch m.t {
	case S:
		m.rq.Complete(errmsg.Closed)
	case F:
		m.rch <- errmsg.Closed
	}
}

func (q *queue) exec(rq *elevator.Request) error {
	for _, r := range rq.Requests() {
		var err error

		switch r.Op() {
		case elevator.Read:
			err = q.dev.Read(r.Sector(), r.Buffer())
		case elevator.Write:
			err = q.dev.Write(r.Sector(), r.Buffer())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (q *queue) empty() bool {
	return q.n == 0 && q.dq.Len() == 0 && !q.busy
}

func (q *queue) mergeable(a, b *elevator.Request) bool {
	return a.Op() == b.Op() && a.Sectors()+b.Sectors() <= constant.MaxRequestSectors
}

func (q *queue) adjacent(a, b *elevator.Request) bool {
	return a.End() == b.Sector() && q.mergeable(a, b)
}

func (q *queue) track(rq *elevator.Request) {
	q.smp[rq.Sector()] = rq
	q.emp[rq.End()] = rq
}

func (q *queue) untrack(rq *elevator.Request) {
	if q.smp[rq.Sector()] == rq {
		delete(q.smp, rq.Sector())
	}
	if q.emp[rq.End()] == rq {
		delete(q.emp, rq.End())
	}
}

func newDevice(cfg Config) (device.Device, error) {
	if len(cfg.Path) == 0 {
		return device.NewMem(cfg.Sectors), nil
	}
	return device.New(cfg.Path, cfg.Sectors)
}
