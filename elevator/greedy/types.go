package greedy

import (
	"github.com/tallendev/test-stuff/elevator"
	"github.com/tidwall/btree"
)

const (
	Name = "greedy"
)

// slot is the membership handle: which collection holds the request and
// the arrival sequence that keeps equal sectors in arrival order.
type slot struct {
	up  bool
	seq uint64
}

type item struct {
	seq uint64
	rq  *elevator.Request
}

type greedy struct {
	seq  uint64
	pos  int64 // end sector of the last dispatched request
	up   *btree.BTreeG[item]
	down *btree.BTreeG[item]
}
