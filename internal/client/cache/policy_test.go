package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Validate(t *testing.T) {
	ts := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	p := DefaultPolicy()

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same instant", ts, true},
		{"one hour later", ts.Add(time.Hour), true},
		{"one second before expiry", ts.AddDate(0, 0, 7).Add(-time.Second), true},
		{"exactly at expiry", ts.AddDate(0, 0, 7), false},
		{"after expiry", ts.AddDate(0, 0, 8), false},
		{"timestamp in the future", ts.Add(-time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Validate(ts, tt.now))
		})
	}
}

func TestPolicy_ZeroDaysNeverValid(t *testing.T) {
	ts := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.False(t, Policy{MaxAgeDays: 0}.Validate(ts, ts))
}

func TestPolicy_ExpiryUsesCalendarDays(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Riga")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// DST starts on 2026-03-29 in Riga, so seven calendar days are 167 hours.
	ts := time.Date(2026, 3, 25, 12, 0, 0, 0, loc)
	exp := DefaultPolicy().Expiry(ts)

	assert.Equal(t, time.Date(2026, 4, 1, 12, 0, 0, 0, loc), exp)
	assert.Equal(t, 167*time.Hour, exp.Sub(ts))
}
