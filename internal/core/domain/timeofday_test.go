package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtside/booking-engine/internal/core/domain"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:00", 360, false},
		{"18:30", 1110, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"1200", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := domain.ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		assert.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestFormatClock_RoundTrips(t *testing.T) {
	for _, s := range []string{"00:00", "06:30", "18:00", "23:59"} {
		min, err := domain.ParseClock(s)
		assert.NoError(t, err)
		assert.Equal(t, s, domain.FormatClock(min))
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     int
		want                           bool
	}{
		{"identical", 1080, 1140, 1080, 1140, true},
		{"partial", 1080, 1140, 1110, 1170, true},
		{"contained", 1080, 1200, 1110, 1140, true},
		{"disjoint", 1080, 1140, 1200, 1260, false},
		{"touching ends do not conflict", 1080, 1140, 1140, 1200, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
			assert.Equal(t, tc.want, got)

			// overlap is symmetric
			assert.Equal(t, got, domain.Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}
