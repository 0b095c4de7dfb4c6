package numbering

import (
	"regexp"
	"strconv"
	"time"
)

// TeamCode identifies a team inside identifiers, e.g. "GR".
type TeamCode string

var teamCodePattern = regexp.MustCompile(`^[A-Z0-9]{1,16}$`)

// ParseTeamCode validates a team code
func ParseTeamCode(s string) (TeamCode, error) {
	if !teamCodePattern.MatchString(s) {
		return "", ErrInvalidTeam
	}
	return TeamCode(s), nil
}

// String returns the team code
func (t TeamCode) String() string {
	return string(t)
}

// PeriodKey is the two-digit year followed by the two-digit month, e.g. "2507".
type PeriodKey string

var periodPattern = regexp.MustCompile(`^\d{2}(0[1-9]|1[0-2])$`)

// ParsePeriodKey validates a period key
func ParsePeriodKey(s string) (PeriodKey, error) {
	if !periodPattern.MatchString(s) {
		return "", ErrInvalidPeriod
	}
	return PeriodKey(s), nil
}

// PeriodOf returns the period containing t, in t's location
func PeriodOf(t time.Time) PeriodKey {
	return PeriodKey(t.Format("0601"))
}

// String returns the period key
func (p PeriodKey) String() string {
	return string(p)
}

// dateToken matches a full calendar date in the free-text range formats the
// board produces: 2025-07-31, 2025/7/31, 2025.07.31 and 2025年7月31日.
var dateToken = regexp.MustCompile(`(\d{4})\s*[-/.年]\s*(\d{1,2})\s*[-/.月]\s*(\d{1,2})\s*日?`)

// PeriodFor decides which period a record is numbered under.
//
// When explicitRange contains at least one complete date the period of the
// last date (the end of the range) is used. Anything else, including empty
// or malformed text, falls back to the period of fallbackNow.
func PeriodFor(explicitRange string, fallbackNow time.Time) PeriodKey {
	if end, ok := rangeEnd(explicitRange); ok {
		return PeriodOf(end)
	}
	return PeriodOf(fallbackNow)
}

// rangeEnd extracts the last valid calendar date from a free-text range
func rangeEnd(text string) (time.Time, bool) {
	matches := dateToken.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return time.Time{}, false
	}

	last := matches[len(matches)-1]
	year, _ := strconv.Atoi(last[1])
	month, _ := strconv.Atoi(last[2])
	day, _ := strconv.Atoi(last[3])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject dates time.Date had to normalise, such as 2025-02-30
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
