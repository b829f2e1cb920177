package greedy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallendev/test-stuff/constant"
	"github.com/tallendev/test-stuff/elevator"
	"github.com/tallendev/test-stuff/errmsg"
)

type sink struct {
	rqs []*elevator.Request
}

func (s *sink) Accept(rq *elevator.Request) {
	s.rqs = append(s.rqs, rq)
}

func (s *sink) sectors() []int64 {
	xs := []int64{}
	for _, rq := range s.rqs {
		xs = append(xs, rq.Sector())
	}
	return xs
}

func newGreedy(t *testing.T) *greedy {
	e, err := New()
	require.Nil(t, err)
	return e.(*greedy)
}

func wr(sector, sectors int64) *elevator.Request {
	return elevator.NewRequest(elevator.Write, sector, make([]byte, sectors*constant.SectorSize))
}

func TestDispatchEmpty(t *testing.T) {
	var s sink

	g := newGreedy(t)
	assert.False(t, g.Dispatch(&s, false))
	assert.False(t, g.Dispatch(&s, true))
	assert.Equal(t, 0, len(s.rqs))
}

func TestNearestFirst(t *testing.T) {
	var s sink

	g := newGreedy(t)
	g.Add(wr(100, 10))
	g.Add(wr(50, 10))
	g.Add(wr(30, 10))
	assert.True(t, g.Dispatch(&s, false))
	assert.Equal(t, int64(40), g.pos)
	g.Add(wr(10, 10))
	for g.Dispatch(&s, false) {
	}
	assert.Equal(t, []int64{30, 50, 100, 10}, s.sectors())
	assert.Nil(t, g.Exit())
}

func TestTiesGoUp(t *testing.T) {
	var s sink

	g := newGreedy(t)
	g.Add(wr(40, 10))
	assert.True(t, g.Dispatch(&s, false)) // pos 50
	g.Add(wr(60, 10))
	g.Add(wr(40, 10))
	for g.Dispatch(&s, false) {
	}
	assert.Equal(t, []int64{40, 60, 40}, s.sectors())
}

func TestStableTies(t *testing.T) {
	var s sink

	g := newGreedy(t)
	a := wr(20, 4)
	b := wr(20, 4)
	g.Add(a)
	g.Add(b)
	g.Add(wr(100, 4))
	assert.True(t, g.Dispatch(&s, false))
	assert.True(t, g.Dispatch(&s, false))
	assert.True(t, a == s.rqs[0])
	assert.True(t, b == s.rqs[1])

	// behind the head position too
	g = newGreedy(t)
	g.Add(wr(100, 4))
	g.Dispatch(&s, false) // pos 104
	c := wr(90, 4)
	d := wr(90, 4)
	g.Add(c)
	g.Add(d)
	s.rqs = s.rqs[:0]
	g.Dispatch(&s, false)
	g.Dispatch(&s, false)
	assert.True(t, c == s.rqs[0])
	assert.True(t, d == s.rqs[1])
}

func TestClassification(t *testing.T) {
	var s sink

	g := newGreedy(t)
	g.Add(wr(100, 10))
	assert.True(t, g.Dispatch(&s, false)) // pos 110
	g.Add(wr(50, 10))
	assert.Equal(t, 1, g.down.Len())
	g.Add(wr(200, 10))
	assert.Equal(t, 1, g.up.Len())
	g.Add(wr(110, 10)) // the head position itself counts as ahead
	assert.Equal(t, 2, g.up.Len())
	assert.Equal(t, 1, g.down.Len())
}

func TestPositionAdvances(t *testing.T) {
	var s sink

	g := newGreedy(t)
	g.Add(wr(30, 10))
	rq := wr(70, 10)
	g.Add(rq)
	assert.Equal(t, int64(0), g.pos)
	g.Merged(rq)
	assert.Equal(t, int64(0), g.pos)
	assert.True(t, g.Dispatch(&s, false))
	assert.Equal(t, int64(40), g.pos)
	assert.False(t, g.Dispatch(&s, false))
	assert.Equal(t, int64(40), g.pos)
}

func TestMerged(t *testing.T) {
	var s sink

	g := newGreedy(t)
	a := wr(10, 4)
	b := wr(30, 4)
	c := wr(50, 4)
	g.Add(a)
	g.Add(b)
	g.Add(c)
	g.Merged(b)
	assert.Nil(t, b.Handle())
	assert.Equal(t, 2, g.up.Len())
	for g.Dispatch(&s, false) {
	}
	assert.Equal(t, []int64{10, 50}, s.sectors())
	assert.Nil(t, g.Exit())
}

func TestFormerLatter(t *testing.T) {
	g := newGreedy(t)
	a := wr(10, 4)
	b := wr(30, 4)
	c := wr(50, 4)
	g.Add(a)
	g.Add(b)
	g.Add(c)
	assert.Nil(t, g.Former(a))
	assert.True(t, a == g.Former(b))
	assert.True(t, b == g.Former(c))
	assert.True(t, b == g.Latter(a))
	assert.True(t, c == g.Latter(b))
	assert.Nil(t, g.Latter(c))
}

func TestFormerLatterBehind(t *testing.T) {
	var s sink

	g := newGreedy(t)
	g.Add(wr(100, 4))
	assert.True(t, g.Dispatch(&s, false)) // pos 104
	a := wr(90, 4)
	b := wr(70, 4)
	c := wr(50, 4)
	g.Add(c)
	g.Add(a)
	g.Add(b)
	// stored in descending order: 90, 70, 50
	assert.Nil(t, g.Former(a))
	assert.True(t, a == g.Former(b))
	assert.True(t, b == g.Former(c))
	assert.True(t, b == g.Latter(a))
	assert.True(t, c == g.Latter(b))
	assert.Nil(t, g.Latter(c))
}

func TestExit(t *testing.T) {
	var s sink

	g := newGreedy(t)
	assert.Nil(t, g.Exit())
	g.Add(wr(10, 4))
	assert.Equal(t, errmsg.QueueNotEmpty, g.Exit())
	assert.True(t, g.Dispatch(&s, false))
	assert.Nil(t, g.Exit())
}

func TestSortedCollections(t *testing.T) {
	var s sink

	g := newGreedy(t)
	g.Add(wr(500, 8))
	assert.True(t, g.Dispatch(&s, false)) // pos 508
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		g.Add(wr(int64(r.Intn(1000)), 8))
	}
	last, seq := int64(-1), uint64(0)
	g.up.Scan(func(x item) bool {
		assert.True(t, x.rq.Sector() > last || (x.rq.Sector() == last && x.seq > seq))
		last, seq = x.rq.Sector(), x.seq
		return true
	})
	last, seq = int64(1<<62), uint64(0)
	g.down.Scan(func(x item) bool {
		assert.True(t, x.rq.Sector() < last || (x.rq.Sector() == last && x.seq > seq))
		last, seq = x.rq.Sector(), x.seq
		return true
	})
	assert.Equal(t, 201, g.up.Len()+g.down.Len()+len(s.rqs))
}

func TestDrain(t *testing.T) {
	var s sink

	g := newGreedy(t)
	r := rand.New(rand.NewSource(1))
	n := 500
	for i := 0; i < n; i++ {
		g.Add(wr(int64(r.Intn(1<<20))*8, 8))
		if i%5 == 4 {
			g.Dispatch(&s, false)
		}
	}
	for g.Dispatch(&s, false) {
	}
	assert.Equal(t, n, len(s.rqs))
	mp := make(map[*elevator.Request]struct{})
	for _, rq := range s.rqs {
		mp[rq] = struct{}{}
	}
	assert.Equal(t, n, len(mp))
	assert.Nil(t, g.Exit())
}
