package wheel

import (
	"encoding/json"
	"fmt"
	"time"
)

// RecordDateFormat is the fixed format used by raw trade and transaction records.
const RecordDateFormat = "02/01/2006"

// ISODateFormat is accepted as an alternative on input and used for display.
const ISODateFormat = "2006-01-02"

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// ParseDate parses a date in the record format (DD/MM/YYYY), falling back to
// ISO-8601 (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(RecordDateFormat, s)
	if err != nil {
		t, err = time.Parse(ISODateFormat, s)
	}
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want DD/MM/YYYY or YYYY-MM-DD", s)
	}
	return NewDate(t.Date()), nil
}

// Today returns the current date. The reporting engines never call it, they
// take an explicit date; it only serves CLI flag defaults.
func Today() Date { return NewDate(time.Now().Date()) }

// time returns the canonical representation of that day (midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// String formats the date in ISO-8601.
func (d Date) String() string { return d.time().Format(ISODateFormat) }

// Record formats the date in the record format (DD/MM/YYYY).
func (d Date) Record() string { return d.time().Format(RecordDateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// MarshalJSON encodes the date in the record format.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.Record()) }

// UnmarshalJSON decodes a date in either supported format.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Month is a calendar month, the bucketing key of the periodic reports.
type Month struct {
	Y int
	M time.Month
}

// MonthOf returns the calendar month containing d.
func MonthOf(d Date) Month { return Month{Y: d.Year(), M: d.Month()} }

// String formats the month as YYYY-MM.
func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Y, int(m.M)) }

// Next returns the following calendar month.
func (m Month) Next() Month {
	d := NewDate(m.Y, m.M, 1)
	d = NewDate(d.y, d.m+1, 1)
	return Month{Y: d.y, M: d.m}
}

// Before reports whether m is before x.
func (m Month) Before(x Month) bool {
	return m.Y < x.Y || (m.Y == x.Y && m.M < x.M)
}

// FinancialYear identifies a 12-month reporting span starting at a
// configurable fiscal month (e.g. April for a UK tax year).
type FinancialYear struct {
	Start time.Month // first month of the fiscal year
	Year  int        // calendar year the fiscal year starts in
}

// FinancialYearOf returns the fiscal year containing month m for fiscal years
// starting at the given month.
func FinancialYearOf(m Month, start time.Month) FinancialYear {
	fy := FinancialYear{Start: start, Year: m.Y}
	if m.M < start {
		fy.Year--
	}
	return fy
}

// Months returns the 12 consecutive calendar months of the fiscal year.
func (fy FinancialYear) Months() []Month {
	months := make([]Month, 0, 12)
	m := Month{Y: fy.Year, M: fy.Start}
	for i := 0; i < 12; i++ {
		months = append(months, m)
		m = m.Next()
	}
	return months
}

// String formats the fiscal year as e.g. "FY2024/25" (or "2024" when it is
// aligned with the calendar year).
func (fy FinancialYear) String() string {
	if fy.Start == time.January {
		return fmt.Sprintf("%d", fy.Year)
	}
	return fmt.Sprintf("FY%d/%02d", fy.Year, (fy.Year+1)%100)
}
