package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY STAMP - Date-granularity time abstraction
// =============================================================================

// DayStampLayout is the wire format for dates ("2024-03-15").
const DayStampLayout = "2006-01-02"

// DayStamp is a calendar day in UTC. All engine decisions (expiry, the week
// boundary) are made at day granularity.
type DayStamp struct {
	t time.Time
}

// Constructors
func NewDayStamp(year int, month time.Month, day int) DayStamp {
	return DayStamp{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DayOf(t time.Time) DayStamp {
	return NewDayStamp(t.Year(), t.Month(), t.Day())
}

func Today() DayStamp {
	return DayOf(time.Now())
}

// ParseDayStamp parses a wire-format date.
func ParseDayStamp(s string) (DayStamp, error) {
	t, err := time.Parse(DayStampLayout, s)
	if err != nil {
		return DayStamp{}, fmt.Errorf("parse day stamp %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Comparison
func (d DayStamp) Before(other DayStamp) bool { return d.t.Before(other.t) }
func (d DayStamp) After(other DayStamp) bool  { return d.t.After(other.t) }
func (d DayStamp) Equal(other DayStamp) bool  { return d.t.Equal(other.t) }
func (d DayStamp) IsZero() bool               { return d.t.IsZero() }

// Arithmetic
func (d DayStamp) AddDays(n int) DayStamp { return DayStamp{t: d.t.AddDate(0, 0, n)} }

// DaysBetween returns the whole days from one stamp to another.
func DaysBetween(from, to DayStamp) int { return int(to.t.Sub(from.t).Hours() / 24) }

// Properties
func (d DayStamp) Weekday() time.Weekday { return d.t.Weekday() }
func (d DayStamp) Time() time.Time       { return d.t }

func (d DayStamp) String() string { return d.t.Format(DayStampLayout) }

// NextMonday returns the Monday strictly after this day. Used at the week
// boundary: a Sunday run opens a period whose Monday is the next day.
func (d DayStamp) NextMonday() DayStamp {
	days := (8 - int(d.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return d.AddDays(days)
}

// JSON encoding: a quoted wire-format date.
func (d DayStamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *DayStamp) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("day stamp: expected quoted date, got %s", data)
	}
	parsed, err := ParseDayStamp(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
