package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{name: "ISO date", input: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "US date", input: "03/15/2024", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "US short date", input: "3/5/24", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Timestamp drops time", input: "2024-03-15 13:45:00", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Long month", input: "January 2, 2025", want: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Surrounding spaces", input: "  2024-01-01 ", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Blank", input: "   ", wantOK: false},
		{name: "N/A sentinel", input: "N/A", wantOK: false},
		{name: "Garbage", input: "next tuesday", wantOK: false},
		{name: "Invalid day", input: "2024-02-31", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestParseDate_TwoDigitYearPivot(t *testing.T) {
	got, ok := ParseDate("1/1/99")
	assert.True(t, ok)
	assert.Equal(t, 1999, got.Year())
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "Plain", input: "1500", want: "1500", wantOK: true},
		{name: "Currency and commas", input: "$12,345.67", want: "12345.67", wantOK: true},
		{name: "Euro", input: "€ 99.5", want: "99.5", wantOK: true},
		{name: "Zero", input: "0", want: "0", wantOK: true},
		{name: "Accounting negative", input: "(250.00)", wantOK: false},
		{name: "Negative", input: "-3", wantOK: false},
		{name: "N/A", input: "N/A", wantOK: false},
		{name: "Blank", input: "", wantOK: false},
		{name: "Text", input: "about 5k", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMoney(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestParseNumber_AccountingNegative(t *testing.T) {
	got, ok := ParseNumber("(1,250.50)")
	assert.True(t, ok)
	assert.Equal(t, "-1250.5", got.String())
}

func TestParseFlag(t *testing.T) {
	for _, s := range []string{"TRUE", "yes", "Y", "1", "x"} {
		v, ok := ParseFlag(s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"FALSE", "no", "0"} {
		v, ok := ParseFlag(s)
		assert.True(t, ok, s)
		assert.False(t, v, s)
	}
	_, ok := ParseFlag("maybe")
	assert.False(t, ok)
}
