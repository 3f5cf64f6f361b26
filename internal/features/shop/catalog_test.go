package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByID(t *testing.T) {
	r, ok := ByID("bite")
	require.True(t, ok)
	assert.Equal(t, "A bite from Beboa", r.Name)
	assert.Equal(t, int64(1), r.Cost)

	_, ok = ByID("nonexistent")
	assert.False(t, ok)
}

func TestSortedByCost(t *testing.T) {
	rewards := SortedByCost()
	require.NotEmpty(t, rewards)

	for i := 1; i < len(rewards); i++ {
		assert.LessOrEqual(t, rewards[i-1].Cost, rewards[i].Cost)
	}

	assert.Equal(t, "bite", rewards[0].ID)
	assert.Equal(t, "gf_day", rewards[len(rewards)-1].ID)
}

func TestFormatNotification(t *testing.T) {
	r, ok := ByID("praise")
	require.True(t, ok)
	got := r.FormatNotification("<@123>")
	assert.Contains(t, got, "<@123>")
	assert.NotContains(t, got, "{user}")
}

func TestCatalogIntegrity(t *testing.T) {
	for _, r := range SortedByCost() {
		assert.Positive(t, r.Cost, "reward %s must cost something", r.ID)
		assert.NotEmpty(t, r.Name, "reward %s needs a name", r.ID)
		assert.NotEmpty(t, r.Notification, "reward %s needs a notification", r.ID)
	}
}
