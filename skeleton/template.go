package skeleton

import "github.com/sgostarter/libcalheatmap/datehelper"

// template is the horizontal layout of one subdomain unit. Columns are filled top to bottom,
// left to right, naturalRows cells at a time.
type template struct {
	naturalRows int
	// weekdayAligned pads the first column so that each row holds one weekday.
	weekdayAligned func(domain datehelper.TimeUnit) bool
}

type templateEntry struct {
	template
	transpose bool
}

func never(datehelper.TimeUnit) bool {
	return false
}

var canonicalTemplates = map[datehelper.TimeUnit]template{
	datehelper.Minute: {naturalRows: 10, weekdayAligned: never},
	datehelper.Hour:   {naturalRows: 6, weekdayAligned: never},
	datehelper.Day: {naturalRows: 7, weekdayAligned: func(domain datehelper.TimeUnit) bool {
		b := domain.Base()

		return b == datehelper.Month || b == datehelper.Year
	}},
	datehelper.Week:  {naturalRows: 1, weekdayAligned: never},
	datehelper.Month: {naturalRows: 1, weekdayAligned: never},
}

// templates holds every subdomain unit, transposed variants included.
var templates = buildTemplates()

func buildTemplates() map[datehelper.TimeUnit]templateEntry {
	entries := make(map[datehelper.TimeUnit]templateEntry, len(canonicalTemplates)*2)

	for unit, tpl := range canonicalTemplates {
		entries[unit] = templateEntry{template: tpl}
		entries[unit.Transpose()] = templateEntry{template: tpl, transpose: true}
	}

	return entries
}
