package domains

import (
	"time"
)

type UpdateMode int

const (
	// ResetAll clears every cell of the filled domains before writing.
	ResetAll UpdateMode = iota
	// ResetSingle overwrites the cells it touches.
	ResetSingle
	// Append adds to the current value of the cells it touches.
	Append
)

func (m UpdateMode) String() string {
	switch m {
	case ResetAll:
		return "reset_all"
	case ResetSingle:
		return "reset_single"
	case Append:
		return "append"
	}

	return "unknown"
}

// Fill folds unix-second timestamps into the whole window. See FillRange.
func (c *Collection) Fill(values map[int64]float64, mode UpdateMode) int {
	minKey, ok := c.Min()
	if !ok {
		return 0
	}

	maxKey, _ := c.Max()

	return c.FillRange(values, mode, minKey, c.helper.Add(maxKey, c.sk.DomainUnit(), 1), false)
}

// FillRange writes values into the domains whose key lies in [start, end). Timestamps belonging
// to a domain that is not in the window are dropped: that is how results of a fetch that
// completed after its domains were evicted get discarded. With missingAsZero, cells of the
// filled domains that are still empty end up 0. It returns the number of cells written.
func (c *Collection) FillRange(values map[int64]float64, mode UpdateMode, start, end time.Time,
	missingAsZero bool) (written int) {
	targets := c.domainsIn(start, end)
	if len(targets) == 0 {
		return
	}

	if mode == ResetAll {
		for _, cells := range targets {
			for _, cell := range cells {
				cell.V = nil
			}
		}
	}

	domainUnit := c.sk.DomainUnit()
	subUnit := c.sk.SubDomainUnit()
	loc := c.keys[0].Location()

	for ts, v := range values {
		at := time.Unix(ts, 0).In(loc)

		key := c.helper.ExtractUnit(at, domainUnit)

		cells, ok := targets[key.Unix()]
		if !ok || len(cells) == 0 {
			continue
		}

		sub := c.helper.ExtractUnit(at, subUnit)

		idx := c.helper.Diff(subUnit, cells[0].T, sub)
		if idx < 0 || idx >= len(cells) || !cells[idx].T.Equal(sub) {
			continue
		}

		cell := cells[idx]

		if mode == Append && cell.V != nil {
			cell.set(*cell.V + v)
		} else {
			cell.set(v)
		}

		written++
	}

	if missingAsZero {
		for _, cells := range targets {
			for _, cell := range cells {
				if cell.V == nil {
					cell.set(0)
				}
			}
		}
	}

	return
}

func (c *Collection) domainsIn(start, end time.Time) map[int64][]*Cell {
	lo := c.helper.ExtractUnit(start, c.sk.DomainUnit())
	targets := make(map[int64][]*Cell)

	for _, key := range c.keys {
		if key.Before(lo) || !key.Before(end) {
			continue
		}

		targets[key.Unix()] = c.cells[key.Unix()]
	}

	return targets
}
