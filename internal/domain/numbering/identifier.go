package numbering

import (
	"fmt"
	"regexp"
	"strconv"
)

// CounterKey addresses one team-scoped counter
type CounterKey struct {
	Team   TeamCode
	Period PeriodKey
}

// NewCounterKey validates both parts of a counter key
func NewCounterKey(team, period string) (CounterKey, error) {
	t, err := ParseTeamCode(team)
	if err != nil {
		return CounterKey{}, err
	}
	p, err := ParsePeriodKey(period)
	if err != nil {
		return CounterKey{}, err
	}
	return CounterKey{Team: t, Period: p}, nil
}

// String returns "TEAM/PERIOD"
func (k CounterKey) String() string {
	return string(k.Team) + "/" + string(k.Period)
}

// Identifier is the permanent number attached to a finalized report
type Identifier struct {
	Team     TeamCode
	Period   PeriodKey
	Sequence int64
}

// NewIdentifier builds an identifier for the given key and consumed sequence
func NewIdentifier(key CounterKey, sequence int64) Identifier {
	return Identifier{Team: key.Team, Period: key.Period, Sequence: sequence}
}

// String formats the identifier as TEAM-PERIOD-NNNN.
// Sequences above 9999 keep all their digits.
func (id Identifier) String() string {
	return fmt.Sprintf("%s-%s-%04d", id.Team, id.Period, id.Sequence)
}

// Key returns the counter key the identifier was drawn from
func (id Identifier) Key() CounterKey {
	return CounterKey{Team: id.Team, Period: id.Period}
}

// IsZero reports whether the identifier is unset
func (id Identifier) IsZero() bool {
	return id.Team == "" && id.Period == "" && id.Sequence == 0
}

var identifierPattern = regexp.MustCompile(`^([A-Z0-9]{1,16})-(\d{4})-(\d{4,})$`)

// ParseIdentifier parses TEAM-PERIOD-NNNN
func ParseIdentifier(s string) (Identifier, error) {
	m := identifierPattern.FindStringSubmatch(s)
	if m == nil {
		return Identifier{}, ErrInvalidIdentifier
	}
	period, err := ParsePeriodKey(m[2])
	if err != nil {
		return Identifier{}, ErrInvalidIdentifier
	}
	seq, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil || seq < 1 {
		return Identifier{}, ErrInvalidIdentifier
	}
	return Identifier{Team: TeamCode(m[1]), Period: period, Sequence: seq}, nil
}
