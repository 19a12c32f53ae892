package model

import "time"

// MonthYear identifies a calendar month. Month is in [1..12].
type MonthYear struct {
	Month int
	Year  int
}

// MonthYearOf returns the calendar month containing t.
func MonthYearOf(t time.Time) MonthYear {
	return MonthYear{Month: int(t.Month()), Year: t.Year()}
}

// AddMonths returns the month n calendar months after m (or before, for
// negative n), rolling over year boundaries in both directions.
func (m MonthYear) AddMonths(n int) MonthYear {
	months := m.Year*12 + (m.Month - 1) + n
	return MonthYear{
		Month: months%12 + 1,
		Year:  months / 12,
	}
}

// Next returns the following calendar month.
func (m MonthYear) Next() MonthYear {
	return m.AddMonths(1)
}

// Before reports whether m is strictly earlier than other.
func (m MonthYear) Before(other MonthYear) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// After reports whether m is strictly later than other.
func (m MonthYear) After(other MonthYear) bool {
	return other.Before(m)
}

// Start returns midnight UTC on the first day of the month.
func (m MonthYear) Start() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether m is the zero value, used to signal "default to the
// current calendar month" in lookups.
func (m MonthYear) IsZero() bool {
	return m.Month == 0 && m.Year == 0
}
