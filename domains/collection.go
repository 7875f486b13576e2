package domains

import (
	"sort"
	"time"

	"github.com/sgostarter/libcalheatmap/calerr"
	"github.com/sgostarter/libcalheatmap/datehelper"
	"github.com/sgostarter/libcalheatmap/skeleton"
)

// Collection is an ascending window of domains. A collection built by NewCandidates only
// carries keys and is used to stage a load.
type Collection struct {
	sk     *skeleton.Skeleton
	helper *datehelper.Helper

	keys  []time.Time
	cells map[int64][]*Cell
}

func New(sk *skeleton.Skeleton) *Collection {
	return &Collection{
		sk:     sk,
		helper: sk.Helper(),
		cells:  make(map[int64][]*Cell),
	}
}

func NewCandidates(sk *skeleton.Skeleton, keys []time.Time) *Collection {
	c := New(sk)

	for _, key := range keys {
		if c.Has(key) {
			continue
		}

		c.keys = append(c.keys, key)
		c.cells[key.Unix()] = nil
	}

	c.sortKeys()

	return c
}

func (c *Collection) DomainUnit() datehelper.TimeUnit {
	return c.sk.DomainUnit()
}

func (c *Collection) Skeleton() *skeleton.Skeleton {
	return c.sk
}

// CreateInitial replaces the content with rangeSize consecutive domains starting at the domain
// holding anchor. builder defaults to SkeletonBuilder.
func (c *Collection) CreateInitial(anchor time.Time, rangeSize int, builder SubDomainBuilder) *Collection {
	if builder == nil {
		builder = SkeletonBuilder(c.sk)
	}

	c.keys = c.helper.Intervals(c.sk.DomainUnit(), anchor, rangeSize)
	c.cells = make(map[int64][]*Cell, len(c.keys))

	for idx, key := range c.keys {
		c.cells[key.Unix()] = builder(key, idx)
	}

	return c
}

func (c *Collection) sortKeys() {
	sort.Slice(c.keys, func(i, j int) bool {
		return c.keys[i].Before(c.keys[j])
	})
}

func (c *Collection) Len() int {
	return len(c.keys)
}

func (c *Collection) Has(key time.Time) bool {
	_, ok := c.cells[key.Unix()]

	return ok
}

func (c *Collection) Keys() []time.Time {
	return append([]time.Time(nil), c.keys...)
}

func (c *Collection) Min() (time.Time, bool) {
	if len(c.keys) == 0 {
		return time.Time{}, false
	}

	return c.keys[0], true
}

func (c *Collection) Max() (time.Time, bool) {
	if len(c.keys) == 0 {
		return time.Time{}, false
	}

	return c.keys[len(c.keys)-1], true
}

// Get returns the live cells of a domain; writes through them are visible to every reader.
func (c *Collection) Get(key time.Time) ([]*Cell, bool) {
	cells, ok := c.cells[key.Unix()]

	return cells, ok
}

func (c *Collection) remove(key time.Time) {
	delete(c.cells, key.Unix())

	for idx, k := range c.keys {
		if k.Equal(key) {
			c.keys = append(c.keys[:idx], c.keys[idx+1:]...)

			break
		}
	}
}

// Clamp drops keys outside [minBound, maxBound]. Bounds are compared at domain granularity and
// a nil bound is open.
func (c *Collection) Clamp(minBound, maxBound *time.Time) *Collection {
	var lo, hi time.Time

	if minBound != nil {
		lo = c.helper.ExtractUnit(*minBound, c.sk.DomainUnit())
	}

	if maxBound != nil {
		hi = c.helper.ExtractUnit(*maxBound, c.sk.DomainUnit())
	}

	for _, key := range c.Keys() {
		if (minBound != nil && key.Before(lo)) || (maxBound != nil && key.After(hi)) {
			c.remove(key)
		}
	}

	return c
}

// Slice keeps at most rangeSize keys: the newest ones when keepNewest, else the oldest.
func (c *Collection) Slice(rangeSize int, keepNewest bool) *Collection {
	if rangeSize < 0 {
		rangeSize = 0
	}

	if len(c.keys) <= rangeSize {
		return c
	}

	var drop []time.Time
	if keepNewest {
		drop = c.Keys()[:len(c.keys)-rangeSize]
	} else {
		drop = c.Keys()[rangeSize:]
	}

	for _, key := range drop {
		c.remove(key)
	}

	return c
}

func (c *Collection) checkUnit(newDomains *Collection) error {
	want, got := c.sk.DomainUnit(), newDomains.sk.DomainUnit()
	if want.Base() != got.Base() {
		return &calerr.DataMismatchError{Want: want.String(), Got: got.String()}
	}

	for _, key := range newDomains.keys {
		if !c.helper.ExtractUnit(key, want).Equal(key) {
			return &calerr.DataMismatchError{Want: want.String(), Got: "unaligned", Key: key}
		}
	}

	return nil
}

// Merge inserts the domains of newDomains that are not present yet, then evicts until at most
// rangeSize remain. Appending past the newest key evicts the oldest entries, anything else
// evicts the newest. Entries inserted by the call are never evicted by it.
func (c *Collection) Merge(newDomains *Collection, rangeSize int,
	builder SubDomainBuilder) (inserted, evicted []time.Time, err error) {
	err = c.checkUnit(newDomains)
	if err != nil {
		return
	}

	if builder == nil {
		builder = SkeletonBuilder(c.sk)
	}

	oldMax, hasOld := c.Max()

	forward := !hasOld

	var fresh []time.Time

	for _, key := range newDomains.keys {
		if c.Has(key) {
			continue
		}

		if hasOld && key.After(oldMax) {
			forward = true
		}

		fresh = append(fresh, key)
	}

	if len(fresh) > rangeSize {
		if forward {
			fresh = fresh[len(fresh)-rangeSize:]
		} else {
			fresh = fresh[:rangeSize]
		}
	}

	justInserted := make(map[int64]bool, len(fresh))

	for idx, key := range fresh {
		c.keys = append(c.keys, key)
		c.cells[key.Unix()] = builder(key, idx)
		justInserted[key.Unix()] = true
	}

	c.sortKeys()

	inserted = fresh

	for len(c.keys) > rangeSize {
		victim, ok := c.evictionCandidate(forward, justInserted)
		if !ok {
			break
		}

		c.remove(victim)
		evicted = append(evicted, victim)
	}

	return
}

func (c *Collection) evictionCandidate(oldest bool, skip map[int64]bool) (time.Time, bool) {
	n := len(c.keys)

	for i := 0; i < n; i++ {
		idx := i
		if !oldest {
			idx = n - 1 - i
		}

		if !skip[c.keys[idx].Unix()] {
			return c.keys[idx], true
		}
	}

	return time.Time{}, false
}
