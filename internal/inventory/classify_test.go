package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPartition(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	items := []*Item{
		{ID: 1, Name: "yogurt", ExpiresAt: now.Add(-48 * time.Hour)},
		{ID: 2, Name: "spinach", ExpiresAt: now.Add(2 * time.Hour)},
		{ID: 3, Name: "milk", ExpiresAt: now.AddDate(0, 0, 2)},
		{ID: 4, Name: "rice", ExpiresAt: now.AddDate(0, 0, 30)},
	}

	c := Classify(items, now, 3)

	assert.Len(t, c.Expired, 1)
	assert.Len(t, c.ExpiringSoon, 2)
	assert.Len(t, c.Fresh, 1)

	// Partition: every item is in exactly one bucket.
	total := len(c.Expired) + len(c.ExpiringSoon) + len(c.Fresh)
	assert.Equal(t, len(items), total)

	assert.Equal(t, "yogurt", c.Expired[0].Name)
	assert.Equal(t, "rice", c.Fresh[0].Name)
}

func TestClassifyBoundaries(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      string
	}{
		{"one second ago is expired", now.Add(-time.Second), "expired"},
		{"exactly now is expiring soon", now, "soon"},
		{"later today is expiring soon", now.Add(6 * time.Hour), "soon"},
		{"three days out is expiring soon", now.AddDate(0, 0, 3), "soon"},
		{"four days out is fresh", now.AddDate(0, 0, 4), "fresh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify([]*Item{{Name: "x", ExpiresAt: tt.expiresAt}}, now, 3)
			switch tt.want {
			case "expired":
				require.Len(t, c.Expired, 1)
			case "soon":
				require.Len(t, c.ExpiringSoon, 1)
			case "fresh":
				require.Len(t, c.Fresh, 1)
			}
		})
	}
}

func TestDaysUntilTruncates(t *testing.T) {
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC)

	// 00:30 tomorrow is one hour away on the clock but one calendar day out.
	assert.Equal(t, 1, DaysUntil(now.Add(time.Hour), now))
	assert.Equal(t, 0, DaysUntil(now.Add(-time.Hour), now))
}

func TestClassifyEmptyAndDefaultWindow(t *testing.T) {
	now := time.Now()

	c := Classify(nil, now, 0)
	assert.Empty(t, c.Expired)
	assert.Empty(t, c.ExpiringSoon)
	assert.Empty(t, c.Fresh)

	// windowDays <= 0 falls back to the default window.
	c = Classify([]*Item{{Name: "eggs", ExpiresAt: now.AddDate(0, 0, 2)}}, now, -1)
	assert.Len(t, c.ExpiringSoon, 1)
}
