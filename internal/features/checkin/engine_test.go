package checkin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_FirstCheckin(t *testing.T) {
	d := Evaluate(nil, time.Now())
	assert.Equal(t, KindFirst, d.Kind)
}

func TestEvaluate_Boundaries(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    Kind
	}{
		{"just under cooldown", 23*time.Hour + 59*time.Minute, KindCooldown},
		{"exactly 24h", 24 * time.Hour, KindContinue},
		{"just under 48h", 47*time.Hour + 59*time.Minute, KindContinue},
		{"exactly 48h", 48 * time.Hour, KindContinue},
		{"just over 48h", 48*time.Hour + 1*time.Minute, KindRecovered},
		{"exactly 72h", 72 * time.Hour, KindRecovered},
		{"just over 72h", 72*time.Hour + 1*time.Minute, KindReset},
		{"a week later", 7 * 24 * time.Hour, KindReset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.Add(-tt.elapsed)
			d := Evaluate(&last, now)
			assert.Equal(t, tt.want, d.Kind)
		})
	}
}

func TestEvaluate_CooldownRemaining(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		elapsed     time.Duration
		wantHours   int
		wantMinutes int
	}{
		{"one minute left", 23*time.Hour + 59*time.Minute, 0, 1},
		{"partial minute rounds up", 23*time.Hour + 59*time.Minute + 30*time.Second, 0, 1},
		{"half the window left", 12 * time.Hour, 12, 0},
		{"immediate retry", 0, 24, 0},
		{"odd remainder", 10*time.Hour + 30*time.Minute, 13, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.Add(-tt.elapsed)
			d := Evaluate(&last, now)
			require.Equal(t, KindCooldown, d.Kind)
			assert.Equal(t, tt.wantHours, d.RemainingHours)
			assert.Equal(t, tt.wantMinutes, d.RemainingMinutes)
		})
	}
}

func TestApply(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("first check-in", func(t *testing.T) {
		got := Apply(State{}, Decision{Kind: KindFirst}, now)
		assert.Equal(t, int64(1), got.Bebits)
		assert.Equal(t, 1, got.CurrentStreak)
		assert.Equal(t, 1, got.TotalCheckins)
		require.NotNil(t, got.LastCheckin)
		assert.Equal(t, now, *got.LastCheckin)
	})

	t.Run("continue extends streak", func(t *testing.T) {
		got := Apply(State{Bebits: 5, CurrentStreak: 5, TotalCheckins: 5}, Decision{Kind: KindContinue}, now)
		assert.Equal(t, int64(6), got.Bebits)
		assert.Equal(t, 6, got.CurrentStreak)
		assert.Equal(t, 6, got.TotalCheckins)
	})

	t.Run("recovered extends streak", func(t *testing.T) {
		got := Apply(State{Bebits: 40, CurrentStreak: 3, TotalCheckins: 12}, Decision{Kind: KindRecovered}, now)
		assert.Equal(t, int64(41), got.Bebits)
		assert.Equal(t, 4, got.CurrentStreak)
		assert.Equal(t, 13, got.TotalCheckins)
	})

	t.Run("reset starts over but keeps totals", func(t *testing.T) {
		got := Apply(State{Bebits: 30, CurrentStreak: 14, TotalCheckins: 30}, Decision{Kind: KindReset}, now)
		assert.Equal(t, int64(31), got.Bebits)
		assert.Equal(t, 1, got.CurrentStreak)
		assert.Equal(t, 31, got.TotalCheckins)
	})

	t.Run("cooldown panics", func(t *testing.T) {
		assert.Panics(t, func() {
			Apply(State{}, Decision{Kind: KindCooldown}, now)
		})
	})
}

// Full scenario from the 50-hours-ago case: a user with 40 Bebits and
// a 3-day streak checks in 50 hours after the last one.
func TestCheckinScenario_RecoveredAfter50Hours(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	last := now.Add(-50 * time.Hour)

	d := Evaluate(&last, now)
	require.Equal(t, KindRecovered, d.Kind)

	got := Apply(State{Bebits: 40, CurrentStreak: 3, TotalCheckins: 20, LastCheckin: &last}, d, now)
	assert.Equal(t, int64(41), got.Bebits)
	assert.Equal(t, 4, got.CurrentStreak)
	assert.Equal(t, now, *got.LastCheckin)
}
