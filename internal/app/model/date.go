package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/clientbook-backend/pkg/util"
)

const DateLayout = "2006-01-02"

// Date is a calendar date without time of day. It is stored as a SQL DATE
// and serialized as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return Date{Time: util.TruncateDate(t)}
}

// DatePtr returns nil for the zero date so that unparseable input stores as NULL.
func DatePtr(d *Date) *Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (Date) GormDataType() string {
	return "date"
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
	case time.Time:
		d.Time = util.TruncateDate(v)
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

func (d *Date) scanText(s string) error {
	t, ok := util.ParseDate(s)
	if !ok {
		return fmt.Errorf("cannot parse %q as date", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts any textual date the import path accepts. Text that
// does not parse leaves the zero Date, which DatePtr turns into NULL.
func (d *Date) UnmarshalJSON(data []byte) error {
	d.Time = time.Time{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if t, ok := util.ParseDate(s); ok {
		d.Time = t
	}
	return nil
}

// IsNull lets Optional treat an unparseable date as an explicit null.
func (d Date) IsNull() bool {
	return d.IsZero()
}
