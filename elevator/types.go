package elevator

const (
	Read = iota
	Write
)

type InitFunc func() (Elevator, error)

/*
Elevator decides which pending request a queue hands to its device next.
An elevator instance belongs to exactly one queue and is never called from
more than one goroutine at a time; the queue's run loop is the only caller.
Implementations keep no global state and take no locks of their own.
*/
type Elevator interface {
	// Add tracks a newly arrived request. A request is added once and
	// stays tracked until Dispatch or Merged removes it.
	Add(*Request)
	// Dispatch removes the chosen request and hands it to the sink,
	// returning false when nothing is pending. The bool argument asks
	// for a forced dispatch during queue teardown.
	Dispatch(Sink, bool) bool
	// Merged removes a tracked request that was absorbed by a neighbor.
	Merged(*Request)
	// Former and Latter return the tracked neighbors of a tracked
	// request in stored order, nil at the boundaries.
	Former(*Request) *Request
	Latter(*Request) *Request
	// Exit tears the instance down; all requests must be gone by then.
	Exit() error
}

// Sink receives dispatched requests in dispatch order.
type Sink interface {
	Accept(*Request)
}

type Request struct {
	op     int
	sector int64 // start sector
	count  int64 // span in sectors, grows as neighbors are absorbed
	buf    []byte
	h      interface{} // membership handle, owned by the elevator
	rqs    []*Request  // requests absorbed into this one
	ch     chan error
}

func (r *Request) Op() int {
	return r.op
}

func (r *Request) Sector() int64 {
	return r.sector
}

func (r *Request) Sectors() int64 {
	return r.count
}

func (r *Request) End() int64 {
	return r.sector + r.count
}

func (r *Request) Buffer() []byte {
	return r.buf
}

func (r *Request) Handle() interface{} {
	return r.h
}

func (r *Request) SetHandle(h interface{}) {
	r.h = h
}
