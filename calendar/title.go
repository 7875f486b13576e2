package calendar

import (
	"fmt"
	"time"

	"github.com/sgostarter/libcalheatmap/datehelper"
	"github.com/sgostarter/libcalheatmap/domains"
	"golang.org/x/text/number"
)

type unitFormat struct {
	layout    string
	connector string
}

var subDomainFormats = map[datehelper.TimeUnit]unitFormat{
	datehelper.Minute: {layout: "15:04", connector: "at"},
	datehelper.Hour:   {layout: "15h", connector: "at"},
	datehelper.Day:    {layout: "Monday January 2, 2006", connector: "on"},
	datehelper.Week:   {layout: "January", connector: "on"},
	datehelper.Month:  {layout: "January 2006", connector: "on"},
	datehelper.Year:   {layout: "2006", connector: "on"},
}

// FormatDate renders t the way subdomain titles show it.
func (c *Calendar) FormatDate(t time.Time) string {
	t = t.In(c.opts.Location)
	unit := c.opts.SubDomainUnit.Base()

	s := t.Format(subDomainFormats[unit].layout)
	if unit == datehelper.Week {
		s = fmt.Sprintf("%s Week #%d", s, datehelper.WeekNumber(t, c.opts.WeekStartOnMonday))
	}

	return s
}

// Title is the hover text of a cell, e.g. "1,204 items on Thursday February 1, 2024".
func (c *Calendar) Title(cell domains.Cell) string {
	date := c.FormatDate(cell.T)

	if !cell.HasValue() && !c.opts.ConsiderMissingDataAsZero {
		return date
	}

	v := cell.Value()

	name := c.opts.ItemName[1]
	if v == 1 {
		name = c.opts.ItemName[0]
	}

	return c.printer.Sprintf("%v %s %s %s", number.Decimal(v), name,
		subDomainFormats[c.opts.SubDomainUnit.Base()].connector, date)
}
