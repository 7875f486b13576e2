package navigator

import (
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libcalheatmap/calerr"
	"github.com/sgostarter/libcalheatmap/datehelper"
	"github.com/sgostarter/libcalheatmap/domains"
	"github.com/sgostarter/libcalheatmap/events"
)

type Direction int

const (
	ScrollNone Direction = iota
	ScrollForward
	ScrollBackward
)

func (d Direction) String() string {
	switch d {
	case ScrollForward:
		return "forward"
	case ScrollBackward:
		return "backward"
	}

	return "none"
}

type Config struct {
	RangeSize int
	MinDate   *time.Time
	MaxDate   *time.Time
}

// Navigator moves the live window. Calls must be serialized by the caller.
type Navigator struct {
	logger  l.Wrapper
	helper  *datehelper.Helper
	unit    datehelper.TimeUnit
	live    *domains.Collection
	builder domains.SubDomainBuilder
	bus     *events.Bus

	rangeSize int
	minDate   *time.Time
	maxDate   *time.Time

	minReached bool
	maxReached bool
}

func New(live *domains.Collection, cfg Config, bus *events.Bus, logger l.Wrapper) (*Navigator, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "Navigator"))

	if live == nil {
		logger.Fatal("no domain collection")
	}

	if bus == nil {
		bus = events.NewBus(logger)
	}

	if cfg.RangeSize <= 0 {
		return nil, calerr.NewConfigError("range", "must be positive, got %d", cfg.RangeSize)
	}

	sk := live.Skeleton()

	n := &Navigator{
		logger:    logger,
		helper:    sk.Helper(),
		unit:      sk.DomainUnit(),
		live:      live,
		builder:   domains.SkeletonBuilder(sk),
		bus:       bus,
		rangeSize: cfg.RangeSize,
	}

	if cfg.MinDate != nil {
		d := n.helper.ExtractUnit(*cfg.MinDate, n.unit)
		n.minDate = &d
	}

	if cfg.MaxDate != nil {
		d := n.helper.ExtractUnit(*cfg.MaxDate, n.unit)
		n.maxDate = &d
	}

	if n.minDate != nil && n.maxDate != nil && n.minDate.After(*n.maxDate) {
		return nil, calerr.NewConfigError("minDate", "%s is after maxDate %s",
			cfg.MinDate.Format(time.RFC3339), cfg.MaxDate.Format(time.RFC3339))
	}

	n.updateBoundary()

	return n, nil
}

func (n *Navigator) MinReached() bool {
	return n.minReached
}

func (n *Navigator) MaxReached() bool {
	return n.maxReached
}

func (n *Navigator) Live() *domains.Collection {
	return n.live
}

// LoadNewDomains clamps candidates to the date bounds, keeps the range edge facing direction and
// merges them into the live window. It returns the direction applied, or ScrollNone when nothing
// was loaded.
func (n *Navigator) LoadNewDomains(candidates *domains.Collection, direction Direction) (Direction, error) {
	switch {
	case direction == ScrollNone:
		return ScrollNone, nil
	case direction == ScrollForward && n.maxReached:
		return ScrollNone, nil
	case direction == ScrollBackward && n.minReached:
		return ScrollNone, nil
	}

	candidates.Clamp(n.minDate, n.maxDate).Slice(n.rangeSize, direction == ScrollForward)

	inserted, evicted, err := n.live.Merge(candidates, n.rangeSize, n.builder)
	if err != nil {
		n.logger.WithFields(l.ErrorField(err)).Error("merge failed")

		return ScrollNone, err
	}

	n.logger.WithFields(l.StringField("direction", direction.String()), l.IntField("inserted", len(inserted)),
		l.IntField("evicted", len(evicted))).Debug("domains merged")

	if len(inserted) > 0 {
		n.bus.Publish(events.Event{Type: events.DomainsLoaded, Domains: inserted})
	}

	if len(evicted) > 0 {
		n.bus.Publish(events.Event{Type: events.DomainsEvicted, Domains: evicted})
	}

	n.updateBoundary()

	if len(inserted) == 0 {
		return ScrollNone, nil
	}

	if direction == ScrollForward {
		n.bus.Publish(events.Event{Type: events.AfterLoadNext, Domains: inserted})
	} else {
		n.bus.Publish(events.Event{Type: events.AfterLoadPrevious, Domains: inserted})
	}

	return direction, nil
}

func (n *Navigator) candidates(keys []time.Time) *domains.Collection {
	return domains.NewCandidates(n.live.Skeleton(), keys)
}

// Next loads the count domains following the window.
func (n *Navigator) Next(count int) (Direction, error) {
	maxKey, ok := n.live.Max()
	if !ok || count <= 0 {
		return ScrollNone, nil
	}

	keys := n.helper.Intervals(n.unit, n.helper.Add(maxKey, n.unit, 1), count)

	return n.LoadNewDomains(n.candidates(keys), ScrollForward)
}

// Previous loads the count domains preceding the window.
func (n *Navigator) Previous(count int) (Direction, error) {
	minKey, ok := n.live.Min()
	if !ok || count <= 0 {
		return ScrollNone, nil
	}

	keys := n.helper.Intervals(n.unit, minKey, -count)

	return n.LoadNewDomains(n.candidates(keys), ScrollBackward)
}

// JumpTo brings the domain holding target into the window. With reset the window is rebuilt to
// start at target.
func (n *Navigator) JumpTo(target time.Time, reset bool) (Direction, error) {
	minKey, ok := n.live.Min()
	if !ok {
		return ScrollNone, nil
	}

	maxKey, _ := n.live.Max()
	t := n.helper.ExtractUnit(target, n.unit)

	switch {
	case t.Before(minKey):
		return n.LoadNewDomains(n.candidates(n.helper.Between(n.unit, t, minKey)), ScrollBackward)
	case reset:
		direction := ScrollBackward
		if minKey.Before(t) {
			direction = ScrollForward
		}

		return n.LoadNewDomains(n.candidates(n.helper.Intervals(n.unit, t, n.rangeSize)), direction)
	case t.After(maxKey):
		keys := n.helper.Between(n.unit, n.helper.Add(maxKey, n.unit, 1), n.helper.Add(t, n.unit, 1))

		return n.LoadNewDomains(n.candidates(keys), ScrollForward)
	}

	return ScrollNone, nil
}

func (n *Navigator) updateBoundary() {
	minKey, ok := n.live.Min()
	if !ok {
		return
	}

	maxKey, _ := n.live.Max()

	minReached := n.minDate != nil && !minKey.After(*n.minDate)
	maxReached := n.maxDate != nil && !maxKey.Before(*n.maxDate)

	if minReached != n.minReached {
		n.minReached = minReached

		if minReached {
			n.bus.Publish(events.Event{Type: events.MinDateReached})
		} else {
			n.bus.Publish(events.Event{Type: events.MinDateNotReached})
		}
	}

	if maxReached != n.maxReached {
		n.maxReached = maxReached

		if maxReached {
			n.bus.Publish(events.Event{Type: events.MaxDateReached})
		} else {
			n.bus.Publish(events.Event{Type: events.MaxDateNotReached})
		}
	}
}
