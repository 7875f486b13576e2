package domains

import (
	"time"

	"github.com/sgostarter/libcalheatmap/skeleton"
)

// Cell is one subdomain. V is nil until a fill writes it; nil and 0 are different states.
type Cell struct {
	T time.Time `json:"t" yaml:"t"`
	V *float64  `json:"v,omitempty" yaml:"v,omitempty"`
	X int       `json:"x" yaml:"x"`
	Y int       `json:"y" yaml:"y"`
}

func (c *Cell) HasValue() bool {
	return c.V != nil
}

func (c *Cell) Value() float64 {
	if c.V == nil {
		return 0
	}

	return *c.V
}

func (c *Cell) set(v float64) {
	c.V = &v
}

// SubDomainBuilder creates the cells of the domain starting at key. index is the position of key
// in the batch being merged.
type SubDomainBuilder func(key time.Time, index int) []*Cell

// SkeletonBuilder builds empty cells for the whole domain with their grid coordinates.
func SkeletonBuilder(sk *skeleton.Skeleton) SubDomainBuilder {
	return func(key time.Time, _ int) []*Cell {
		ts := sk.DomainMapping(key)

		cells := make([]*Cell, 0, len(ts))
		for _, t := range ts {
			x, y := sk.Position(t)
			cells = append(cells, &Cell{
				T: t,
				X: x,
				Y: y,
			})
		}

		return cells
	}
}
