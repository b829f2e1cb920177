package greedy

import (
	"github.com/tallendev/test-stuff/elevator"
	"github.com/tallendev/test-stuff/errmsg"
	"github.com/tidwall/btree"
)

func init() {
	elevator.Register(Name, New)
}

/*
New builds an empty greedy elevator. Pending requests sit in two
collections around the end of the last dispatched request: up holds
requests at or past it in ascending order, down holds requests before
it in descending order. Dispatch takes whichever head is nearest. The
owning queue serializes every call, so the trees run unlocked.
*/
func New() (elevator.Elevator, error) {
	opts := btree.Options{NoLocks: true}
	return &greedy{
		up: btree.NewBTreeGOptions(func(a, b item) bool {
			if a.rq.Sector() != b.rq.Sector() {
				return a.rq.Sector() < b.rq.Sector()
			}
			return a.seq < b.seq
		}, opts),
		down: btree.NewBTreeGOptions(func(a, b item) bool {
			if a.rq.Sector() != b.rq.Sector() {
				return a.rq.Sector() > b.rq.Sector()
			}
			return a.seq < b.seq
		}, opts),
	}, nil
}

func (g *greedy) Add(rq *elevator.Request) {
	g.seq++
	h := &slot{seq: g.seq, up: g.pos <= rq.Sector()}
	g.tree(h).Set(item{seq: h.seq, rq: rq})
	rq.SetHandle(h)
}

func (g *greedy) Dispatch(s elevator.Sink, force bool) bool {
	var rq *elevator.Request

	u, uok := g.up.Min()
	d, dok := g.down.Min()
	switch {
	case !uok && !dok:
		return false
	case !dok:
		rq = u.rq
		g.up.PopMin()
	case !uok:
		rq = d.rq
		g.down.PopMin()
	default:
		// ties go up: the sweep prefers ascending sectors
		if u.rq.Sector()-g.pos > g.pos-d.rq.Sector() {
			rq = d.rq
			g.down.PopMin()
		} else {
			rq = u.rq
			g.up.PopMin()
		}
	}
	rq.SetHandle(nil)
	s.Accept(rq)
	g.pos = rq.End()
	return true
}

func (g *greedy) Merged(rq *elevator.Request) {
	h := rq.Handle().(*slot)
	g.tree(h).Delete(item{seq: h.seq, rq: rq})
	rq.SetHandle(nil)
}

func (g *greedy) Former(rq *elevator.Request) *elevator.Request {
	var fmr *elevator.Request

	h := rq.Handle().(*slot)
	g.tree(h).Descend(item{seq: h.seq, rq: rq}, func(x item) bool {
		if x.seq == h.seq {
			return true
		}
		fmr = x.rq
		return false
	})
	return fmr
}

func (g *greedy) Latter(rq *elevator.Request) *elevator.Request {
	var lat *elevator.Request

	h := rq.Handle().(*slot)
	g.tree(h).Ascend(item{seq: h.seq, rq: rq}, func(x item) bool {
		if x.seq == h.seq {
			return true
		}
		lat = x.rq
		return false
	})
	return lat
}

func (g *greedy) Exit() error {
	if g.up.Len() > 0 || g.down.Len() > 0 {
		return errmsg.QueueNotEmpty
	}
	return nil
}

func (g *greedy) tree(h *slot) *btree.BTreeG[item] {
	if h.up {
		return g.up
	}
	return g.down
}
