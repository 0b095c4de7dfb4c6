package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaizen/backend/internal/domain/shared"
)

var seedPattern = regexp.MustCompile(`^([A-Z0-9]{1,16})-(\d{4})-(\d{4})$`)

// ParseSeed validates the human-supplied starting value for a counter and
// returns the sequence number the next allocation will consume.
//
// The seed must be exactly TEAM-YYMM-NNNN, name the requesting team and
// period, and NNNN must be at least 1.
func ParseSeed(key CounterKey, raw string) (int64, error) {
	m := seedPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, ErrInvalidSeed
	}
	if TeamCode(m[1]) != key.Team {
		return 0, shared.NewDomainError(CodeTeamMismatch,
			fmt.Sprintf("Seed team %s does not match team %s", m[1], key.Team))
	}
	if PeriodKey(m[2]) != key.Period {
		return 0, shared.NewDomainError(CodePeriodMismatch,
			fmt.Sprintf("Seed period %s does not match period %s", m[2], key.Period))
	}
	start, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil || start < 1 {
		return 0, shared.NewDomainError(CodeInvalidSeed, "Seed sequence must be at least 0001")
	}
	return start, nil
}
