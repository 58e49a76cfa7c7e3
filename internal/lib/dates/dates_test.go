package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	date := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "05-03-2026", Format(&date))
	assert.Equal(t, NotAvailable, Format(nil))

	var zero time.Time
	assert.Equal(t, NotAvailable, Format(&zero))
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "rfc3339", in: "2026-03-05T10:30:00Z", want: "05-03-2026"},
		{name: "empty", in: "", want: NotAvailable},
		{name: "garbage", in: "not-a-date", want: NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatString(tt.in))
		})
	}
}

func TestDaysUntilCeil(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{name: "exactly five days", t: now.AddDate(0, 0, 5), want: 5},
		{name: "partial day rounds up", t: now.Add(5*24*time.Hour + time.Hour), want: 6},
		{name: "one hour left counts as a day", t: now.Add(time.Hour), want: 1},
		{name: "same moment", t: now, want: 0},
		{name: "in the past", t: now.Add(-36 * time.Hour), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilCeil(tt.t, now))
		})
	}
}
