package leave

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	leaveerrors "go-portal-rh/internal/leave/errors"

	"gopkg.in/yaml.v3"
)

// CountMode selects how the days of a period are charged to the balance.
type CountMode string

const (
	// CountCalendar charges every day of the inclusive period.
	CountCalendar CountMode = "calendar"
	// CountBusiness charges Monday to Friday, minus holidays.
	CountBusiness CountMode = "business"
)

const (
	KindAnnual  = "annual"
	KindSpecial = "special"
	KindUnpaid  = "unpaid"
	KindMedical = "medical"
)

// DayPolicy maps each accepted leave kind to its count mode.
type DayPolicy struct {
	Kinds map[string]CountMode `yaml:"kinds"`
}

func DefaultDayPolicy() DayPolicy {
	return DayPolicy{Kinds: map[string]CountMode{
		KindAnnual:  CountCalendar,
		KindSpecial: CountCalendar,
		KindUnpaid:  CountCalendar,
		KindMedical: CountCalendar,
	}}
}

// LoadDayPolicy reads a YAML policy file such as
//
//	kinds:
//	  annual: business
//	  medical: calendar
//
// An empty path yields DefaultDayPolicy.
func LoadDayPolicy(path string) (DayPolicy, error) {
	if path == "" {
		return DefaultDayPolicy(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return DayPolicy{}, fmt.Errorf("read day policy: %w", err)
	}
	return ParseDayPolicy(raw)
}

func ParseDayPolicy(raw []byte) (DayPolicy, error) {
	var p DayPolicy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return DayPolicy{}, fmt.Errorf("parse day policy: %w", err)
	}
	if len(p.Kinds) == 0 {
		return DayPolicy{}, fmt.Errorf("day policy declares no kinds")
	}

	normalized := make(map[string]CountMode, len(p.Kinds))
	for kind, mode := range p.Kinds {
		switch mode {
		case CountCalendar, CountBusiness:
		default:
			return DayPolicy{}, fmt.Errorf("day policy: kind %q has unknown mode %q", kind, mode)
		}
		normalized[strings.ToLower(strings.TrimSpace(kind))] = mode
	}
	p.Kinds = normalized
	return p, nil
}

// HolidayProvider lists the holidays of a year at UTC midnight.
type HolidayProvider interface {
	DatesInYear(ctx context.Context, year int) ([]time.Time, error)
}

type DayCounter struct {
	policy   DayPolicy
	holidays HolidayProvider
}

// NewDayCounter builds a counter. holidays may be nil when no kind uses
// business counting.
func NewDayCounter(policy DayPolicy, holidays HolidayProvider) *DayCounter {
	return &DayCounter{policy: policy, holidays: holidays}
}

func (c *DayCounter) Kinds() []string {
	kinds := make([]string, 0, len(c.policy.Kinds))
	for k := range c.policy.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Count returns the days charged for the inclusive period [start, end].
// start and end must share a calendar year.
func (c *DayCounter) Count(ctx context.Context, kind string, start, end time.Time) (int, error) {
	mode, ok := c.policy.Kinds[kind]
	if !ok {
		return 0, leaveerrors.ErrUnknownKind
	}

	calendarDays := int(end.Sub(start).Hours()/24) + 1
	if mode == CountCalendar {
		return calendarDays, nil
	}

	off := map[string]struct{}{}
	if c.holidays != nil {
		dates, err := c.holidays.DatesInYear(ctx, start.Year())
		if err != nil {
			return 0, err
		}
		for _, d := range dates {
			off[d.Format(dateLayout)] = struct{}{}
		}
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if _, holiday := off[d.Format(dateLayout)]; holiday {
			continue
		}
		days++
	}
	return days, nil
}
