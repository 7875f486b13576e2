package calendar

import (
	"context"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libcalheatmap/domains"
	"github.com/sgostarter/libeasygo/routineman"
)

// Refresher re-fetches the window of a calendar on a fixed interval until stopped.
type Refresher struct {
	logger   l.Wrapper
	cal      *Calendar
	interval time.Duration
	mode     domains.UpdateMode

	routineMan routineman.RoutineMan
}

func NewRefresher(cal *Calendar, interval time.Duration, mode domains.UpdateMode, logger l.Wrapper) *Refresher {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "Refresher"))

	if cal == nil {
		logger.Fatal("no calendar")
	}

	if interval <= 0 {
		interval = time.Minute
	}

	r := &Refresher{
		logger:     logger,
		cal:        cal,
		interval:   interval,
		mode:       mode,
		routineMan: routineman.NewRoutineMan(context.Background(), logger),
	}

	r.routineMan.StartRoutine(r.refreshRoutine, "refreshRoutine")

	return r
}

func (r *Refresher) TriggerStop() {
	r.routineMan.TriggerStop()
}

func (r *Refresher) Wait() {
	r.routineMan.Wait()
}

func (r *Refresher) refreshRoutine(ctx context.Context, _ func() bool) {
	r.logger.Debug("enter")
	defer r.logger.Debug("leave")

	loop := true

	for loop {
		select {
		case <-ctx.Done():
			loop = false

			continue
		case <-time.After(r.interval):
			if err := r.cal.Update(ctx, r.mode); err != nil {
				r.logger.WithFields(l.ErrorField(err)).Error("refresh failed")
			}
		}
	}
}
