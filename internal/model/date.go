package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day without time of day, serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func Today() Date { return NewDate(time.Now()) }

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) AddDays(n int) Date { return Date{d.Time.AddDate(0, 0, n)} }

// DaysSince returns the whole number of days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Sub(other.Time).Hours() / 24)
}

func (d Date) Equal(other Date) bool { return d.String() == other.String() }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// accept full timestamps from clients that send ISO datetimes
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		p, err := ParseDate(v[:min(len(v), len(DateLayout))])
		*d = p
		return err
	case []byte:
		return d.Scan(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
