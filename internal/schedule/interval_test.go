package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := ParseTime(s)
	require.NoError(t, err)
	return v
}

func iv(t *testing.T, start, end string) Interval {
	t.Helper()
	return Interval{Start: at(t, start), End: at(t, end)}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b [2]string
		want bool
	}{
		{"identical", [2]string{"2026-11-02T09:00", "2026-11-02T10:00"}, [2]string{"2026-11-02T09:00", "2026-11-02T10:00"}, true},
		{"partial", [2]string{"2026-11-02T09:00", "2026-11-02T10:00"}, [2]string{"2026-11-02T09:30", "2026-11-02T10:30"}, true},
		{"nested", [2]string{"2026-11-02T09:00", "2026-11-02T12:00"}, [2]string{"2026-11-02T10:00", "2026-11-02T11:00"}, true},
		{"touching end to start", [2]string{"2026-11-02T09:00", "2026-11-02T10:00"}, [2]string{"2026-11-02T10:00", "2026-11-02T11:00"}, false},
		{"disjoint", [2]string{"2026-11-02T09:00", "2026-11-02T10:00"}, [2]string{"2026-11-02T14:00", "2026-11-02T15:00"}, false},
		{"different days", [2]string{"2026-11-02T09:00", "2026-11-02T10:00"}, [2]string{"2026-11-03T09:00", "2026-11-03T10:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := iv(t, tt.a[0], tt.a[1])
			b := iv(t, tt.b[0], tt.b[1])
			assert.Equal(t, tt.want, a.Overlaps(b))
			assert.Equal(t, tt.want, b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	window := iv(t, "2026-11-02T09:00", "2026-11-02T12:00")

	assert.True(t, window.Contains(iv(t, "2026-11-02T09:00", "2026-11-02T12:00")))
	assert.True(t, window.Contains(iv(t, "2026-11-02T11:00", "2026-11-02T12:00")))
	assert.True(t, window.Contains(iv(t, "2026-11-02T09:00", "2026-11-02T09:30")))
	assert.False(t, window.Contains(iv(t, "2026-11-02T11:30", "2026-11-02T12:30")))
	assert.False(t, window.Contains(iv(t, "2026-11-02T08:59", "2026-11-02T10:00")))
}

func TestInterval_Duration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, iv(t, "2026-11-02T09:00", "2026-11-02T10:30").Duration())
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"valid", "2026-11-02T09:00", "2026-11-02T10:00", false},
		{"surrounding whitespace", " 2026-11-02T09:00 ", "2026-11-02T10:00\n", false},
		{"empty start", "", "2026-11-02T10:00", true},
		{"bad end", "2026-11-02T09:00", "tomorrow", true},
		{"seconds not accepted", "2026-11-02T09:00:00", "2026-11-02T10:00", true},
		{"end equals start", "2026-11-02T09:00", "2026-11-02T09:00", true},
		{"end before start", "2026-11-02T10:00", "2026-11-02T09:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterval(tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeRange)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Valid())
			assert.Equal(t, time.UTC, got.Start.Location())
		})
	}
}

func TestWallClock(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2026, 11, 2, 9, 15, 30, 500, zone)

	got := WallClock(local)

	assert.Equal(t, time.Date(2026, 11, 2, 9, 15, 30, 0, time.UTC), got)
	assert.Equal(t, at(t, "2026-11-02T09:15").Add(30*time.Second), got)
}
