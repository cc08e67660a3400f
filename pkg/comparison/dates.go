package comparison

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Explicit layouts tried first: day-first, year-first, 2- and 4-digit
// years, textual months. Unpadded numeric dates fall through to the regex
// extraction below.
var dateLayouts = []string{
	"02/01/2006", "02-01-2006", "2006-01-02", "2006/01/02",
	"02/01/06", "02-01-06", "06-01-02", "06/01/02",
	"2 Jan 2006", "2 January 2006", "Jan 2, 2006", "January 2, 2006",
	"02.01.2006", "2006.01.02",
}

var (
	dayFirstPattern  = regexp.MustCompile(`(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})`)
	yearFirstPattern = regexp.MustCompile(`(\d{4})[/.-](\d{1,2})[/.-](\d{1,2})`)
)

// ParseDate parses a heterogeneous date value into a calendar date. Non
// string or unparseable input returns ok=false, never an error. Ambiguous
// numeric dates are read day-first, falling back to month-first when the
// day-first reading is invalid. Two-digit years below 50 land in 2000s,
// the rest in 1900s.
func ParseDate(value any) (time.Time, bool) {
	str, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}

	str = strings.TrimSpace(str)
	if str == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, true
		}
	}

	if m := dayFirstPattern.FindStringSubmatch(str); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		year = expandYear(year)

		if t, ok := makeDate(year, month, day); ok {
			return t, true
		}
		// month-first reading for dates like 08/15/2024
		if t, ok := makeDate(year, day, month); ok {
			return t, true
		}
	}

	if m := yearFirstPattern.FindStringSubmatch(str); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])

		if t, ok := makeDate(year, month, day); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

func expandYear(year int) int {
	if year >= 100 {
		return year
	}
	if year < 50 {
		return year + 2000
	}
	return year + 1900
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// time.Date normalizes overflow (Feb 30 becomes Mar 2), which would
	// silently accept an invalid date
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}

	return t, true
}
