package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libcalheatmap/datasource"
	"github.com/sgostarter/libcalheatmap/datehelper"
	"github.com/sgostarter/libcalheatmap/domains"
	"github.com/sgostarter/libcalheatmap/events"
	"github.com/sgostarter/libcalheatmap/navigator"
	"github.com/sgostarter/libcalheatmap/skeleton"
	"golang.org/x/text/message"
)

// Calendar ties the window, the navigator and a data source together. Its methods are safe for
// concurrent use; they run one at a time. Events raised by a call reach subscribers once the call
// has released the calendar, so handlers may call back into it.
type Calendar struct {
	logger l.Wrapper
	opts   *Options

	helper *datehelper.Helper
	sk     *skeleton.Skeleton
	live   *domains.Collection
	nav    *navigator.Navigator
	bus    *events.Bus
	out    *events.Bus
	source datasource.Source

	printer *message.Printer

	lock    sync.Mutex
	pending []time.Time
	queued  []events.Event
}

// New builds the initial window around the configured start and fills it from source.
// A nil source falls back to the payload configured by cfg.Data; without one cells only change
// through Fill.
func New(ctx context.Context, cfg *Config, source datasource.Source, logger l.Wrapper) (*Calendar, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	if source == nil {
		if source, err = cfg.Source(); err != nil {
			return nil, err
		}
	}

	return NewWithOptions(ctx, opts, source, logger)
}

func NewWithOptions(ctx context.Context, opts *Options, source datasource.Source, logger l.Wrapper) (*Calendar, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "Calendar"))

	helper := datehelper.NewHelper(opts.WeekStartOnMonday)

	var skOpts []skeleton.Option
	if opts.ColLimit > 0 {
		skOpts = append(skOpts, skeleton.ColLimitOption(opts.ColLimit))
	}

	if opts.RowLimit > 0 {
		skOpts = append(skOpts, skeleton.RowLimitOption(opts.RowLimit))
	}

	sk, err := skeleton.New(helper, opts.DomainUnit, opts.SubDomainUnit, skOpts...)
	if err != nil {
		return nil, err
	}

	c := &Calendar{
		logger:  logger,
		opts:    opts,
		helper:  helper,
		sk:      sk,
		bus:     events.NewBus(logger),
		out:     events.NewBus(logger),
		source:  source,
		printer: message.NewPrinter(opts.Language),
	}

	c.bus.Subscribe(func(e events.Event) {
		c.pending = append(c.pending, e.Domains...)
	}, events.DomainsLoaded)

	c.bus.Subscribe(func(e events.Event) {
		c.queued = append(c.queued, e)
	})

	c.live = domains.New(sk).CreateInitial(c.anchor(), opts.Range, nil)

	c.nav, err = navigator.New(c.live, navigator.Config{
		RangeSize: opts.Range,
		MinDate:   opts.MinDate,
		MaxDate:   opts.MaxDate,
	}, c.bus, logger)
	if err != nil {
		return nil, err
	}

	c.pending = c.live.Keys()

	if err = c.loadPending(ctx); err != nil {
		return nil, err
	}

	// nobody can subscribe before New returns
	c.queued = nil

	return c, nil
}

// anchor keeps the start inside [minDate, maxDate].
func (c *Calendar) anchor() time.Time {
	start := c.opts.Start.In(c.opts.Location)

	if c.opts.MaxDate != nil && start.After(*c.opts.MaxDate) {
		start = *c.opts.MaxDate
	}

	if c.opts.MinDate != nil && start.Before(*c.opts.MinDate) {
		start = *c.opts.MinDate
	}

	return start
}

func (c *Calendar) Options() Options {
	return *c.opts
}

func (c *Calendar) Skeleton() *skeleton.Skeleton {
	return c.sk
}

// Subscribe registers handler on the calendar events; an empty type list means all of them.
func (c *Calendar) Subscribe(handler events.Handler, types ...events.Type) uint64 {
	return c.out.Subscribe(handler, types...)
}

func (c *Calendar) Unsubscribe(id uint64) bool {
	return c.out.Unsubscribe(id)
}

// unlockAndPublish releases the calendar and hands the events queued meanwhile to subscribers.
func (c *Calendar) unlockAndPublish() {
	queued := c.queued
	c.queued = nil

	c.lock.Unlock()

	for _, e := range queued {
		c.out.Publish(e)
	}
}

func (c *Calendar) Domains() []time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.live.Keys()
}

// Cells returns a snapshot of the cells of one domain.
func (c *Calendar) Cells(key time.Time) ([]domains.Cell, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	cells, ok := c.live.Get(c.helper.ExtractUnit(key, c.opts.DomainUnit))
	if !ok {
		return nil, false
	}

	snapshot := make([]domains.Cell, 0, len(cells))
	for _, cell := range cells {
		cp := *cell
		if cell.V != nil {
			v := *cell.V
			cp.V = &v
		}

		snapshot = append(snapshot, cp)
	}

	return snapshot, true
}

func (c *Calendar) MinReached() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.nav.MinReached()
}

func (c *Calendar) MaxReached() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.nav.MaxReached()
}

func (c *Calendar) Next(ctx context.Context, n int) (navigator.Direction, error) {
	return c.navigate(ctx, func() (navigator.Direction, error) {
		return c.nav.Next(n)
	})
}

func (c *Calendar) Previous(ctx context.Context, n int) (navigator.Direction, error) {
	return c.navigate(ctx, func() (navigator.Direction, error) {
		return c.nav.Previous(n)
	})
}

func (c *Calendar) JumpTo(ctx context.Context, target time.Time, reset bool) (navigator.Direction, error) {
	return c.navigate(ctx, func() (navigator.Direction, error) {
		return c.nav.JumpTo(target, reset)
	})
}

func (c *Calendar) navigate(ctx context.Context, fn func() (navigator.Direction, error)) (navigator.Direction, error) {
	c.lock.Lock()
	defer c.unlockAndPublish()

	c.pending = nil

	direction, err := fn()
	if err != nil {
		return direction, err
	}

	return direction, c.loadPending(ctx)
}

// loadPending fetches the domains loaded by the last move. The window is already final when it
// runs, so values of domains evicted meanwhile are dropped by the fill.
func (c *Calendar) loadPending(ctx context.Context) error {
	keys := c.pending
	c.pending = nil

	if c.source == nil || len(keys) == 0 {
		return nil
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Before(keys[j])
	})

	start := keys[0]
	end := c.helper.Add(keys[len(keys)-1], c.opts.DomainUnit, 1)

	return c.fetchAndFill(ctx, start, end, domains.ResetSingle)
}

func (c *Calendar) fetchAndFill(ctx context.Context, start, end time.Time, mode domains.UpdateMode) error {
	values, err := c.source.Load(ctx, start, end)
	if err != nil {
		c.logger.WithFields(l.ErrorField(err), l.StringField("start", start.Format(time.RFC3339)),
			l.StringField("end", end.Format(time.RFC3339))).Error("load values failed")

		return err
	}

	c.fill(values, mode, start, end)

	return nil
}

func (c *Calendar) fill(values map[int64]float64, mode domains.UpdateMode, start, end time.Time) {
	n := c.live.FillRange(values, mode, start, end, c.opts.ConsiderMissingDataAsZero)

	c.logger.WithFields(l.IntField("values", len(values)), l.IntField("written", n)).Debug("filled")

	c.bus.Publish(events.Event{Type: events.Filled, Domains: c.helper.Between(c.opts.DomainUnit, start, end), Count: n})
}

// Update fetches the whole window again.
func (c *Calendar) Update(ctx context.Context, mode domains.UpdateMode) error {
	c.lock.Lock()
	defer c.unlockAndPublish()

	if c.source == nil {
		return nil
	}

	start, end, ok := c.window()
	if !ok {
		return nil
	}

	return c.fetchAndFill(ctx, start, end, mode)
}

// Fill writes values pushed by the caller into the window.
func (c *Calendar) Fill(values map[int64]float64, mode domains.UpdateMode) {
	c.lock.Lock()
	defer c.unlockAndPublish()

	start, end, ok := c.window()
	if !ok {
		return
	}

	c.fill(values, mode, start, end)
}

func (c *Calendar) window() (start, end time.Time, ok bool) {
	start, ok = c.live.Min()
	if !ok {
		return
	}

	maxKey, _ := c.live.Max()
	end = c.helper.Add(maxKey, c.opts.DomainUnit, 1)

	return
}

// IsHighlighted reports whether t shares its subdomain with one of the highlighted dates.
func (c *Calendar) IsHighlighted(t time.Time) bool {
	sub := c.helper.ExtractUnit(t, c.opts.SubDomainUnit)

	for _, h := range c.opts.Highlight {
		if c.helper.ExtractUnit(h, c.opts.SubDomainUnit).Equal(sub) {
			return true
		}
	}

	return false
}
