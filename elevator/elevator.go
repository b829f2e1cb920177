package elevator

import (
	"sync"

	"github.com/tallendev/test-stuff/constant"
	"github.com/tallendev/test-stuff/errmsg"
)

var (
	mu sync.RWMutex
	mp = make(map[string]InitFunc)
)

// Register makes an elevator available to queues under the given name.
// Elevators register themselves in init.
func Register(name string, fn InitFunc) {
	mu.Lock()
	defer mu.Unlock()
	mp[name] = fn
}

func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(mp, name)
}

// New builds a fresh instance of the named elevator.
func New(name string) (Elevator, error) {
	mu.RLock()
	fn, ok := mp[name]
	mu.RUnlock()
	if !ok {
		return nil, errmsg.UnknownElevator
	}
	return fn()
}

// NewRequest builds a request spanning len(buf)/SectorSize sectors from the
// given start sector. The buffer is read or written in place when the
// request reaches the device; Wait reports the outcome.
func NewRequest(op int, sector int64, buf []byte) *Request {
	return &Request{
		op:     op,
		buf:    buf,
		sector: sector,
		ch:     make(chan error, 1),
		count:  int64(len(buf) / constant.SectorSize),
	}
}

// Absorb merges an adjacent request into r. The absorbed request keeps its
// own buffer and start sector while r's span grows to cover it; completing
// r completes it too.
func (r *Request) Absorb(o *Request) {
	r.count += o.count
	r.rqs = append(r.rqs, o)
}

// Requests returns r and every request absorbed into it.
func (r *Request) Requests() []*Request {
	rqs := []*Request{r}
	for _, o := range r.rqs {
		rqs = append(rqs, o.Requests()...)
	}
	return rqs
}

// Complete finishes r and everything absorbed into it. Called once, by the
// queue that owns the request.
func (r *Request) Complete(err error) {
	for _, o := range r.rqs {
		o.Complete(err)
	}
	r.ch <- err
}

// Wait blocks until the request completes and returns its result. Wait may
// be called at most once per request.
func (r *Request) Wait() error {
	return <-r.ch
}
