// Package checkin implements the daily check-in streak rules.
//
// The decision logic is pure: Evaluate classifies a check-in attempt
// from the previous check-in timestamp and the current time, Apply
// produces the resulting account values. Persistence lives in the
// repository, which runs both inside one transaction.
package checkin

import (
	"fmt"
	"time"
)

// Windows that govern a check-in attempt, measured from the previous
// check-in timestamp.
const (
	// Cooldown is the minimum interval between rewarded check-ins.
	Cooldown = 24 * time.Hour
	// Grace is the maximum interval after which the streak resets.
	Grace = 72 * time.Hour
	// recoveredAfter marks the point inside the grace window past
	// which a continued streak counts as "recovered" (a near-miss).
	recoveredAfter = 48 * time.Hour
)

// Kind classifies a check-in attempt.
type Kind string

const (
	// KindFirst is the very first check-in of an account.
	KindFirst Kind = "first"
	// KindCooldown means the attempt came too early and is rejected.
	KindCooldown Kind = "cooldown"
	// KindContinue extends the streak within the 24–48h window.
	KindContinue Kind = "continue"
	// KindRecovered extends the streak within the 48–72h window.
	KindRecovered Kind = "recovered"
	// KindReset starts a new streak after the grace window expired.
	KindReset Kind = "reset"
)

// Decision is the outcome of evaluating a check-in attempt.
type Decision struct {
	Kind Kind
	// RemainingHours and RemainingMinutes are set only for
	// KindCooldown: how long until the next check-in is allowed,
	// rounded up to whole minutes.
	RemainingHours   int
	RemainingMinutes int
}

// Evaluate classifies a check-in attempt. lastCheckin is nil for an
// account that has never checked in.
func Evaluate(lastCheckin *time.Time, now time.Time) Decision {
	if lastCheckin == nil {
		return Decision{Kind: KindFirst}
	}

	elapsed := now.Sub(*lastCheckin)
	switch {
	case elapsed < Cooldown:
		remaining := Cooldown - elapsed
		// Round up to whole minutes so "23h59m30s elapsed" reads
		// as 0h 1m left, never 0h 0m.
		totalMin := int((remaining + time.Minute - 1) / time.Minute)
		return Decision{
			Kind:             KindCooldown,
			RemainingHours:   totalMin / 60,
			RemainingMinutes: totalMin % 60,
		}
	case elapsed <= recoveredAfter:
		return Decision{Kind: KindContinue}
	case elapsed <= Grace:
		return Decision{Kind: KindRecovered}
	default:
		return Decision{Kind: KindReset}
	}
}

// State is the slice of an account that a successful check-in mutates.
type State struct {
	Bebits        int64
	CurrentStreak int
	TotalCheckins int
	LastCheckin   *time.Time
}

// Apply mutates a copy of the state according to the decision and
// returns it. Every successful check-in awards one Bebit, bumps the
// lifetime counter and stamps the check-in time. Apply must never be
// called with a cooldown decision; that is a caller bug.
func Apply(s State, d Decision, now time.Time) State {
	switch d.Kind {
	case KindFirst, KindReset:
		s.CurrentStreak = 1
	case KindContinue, KindRecovered:
		s.CurrentStreak++
	case KindCooldown:
		panic(fmt.Sprintf("checkin: Apply called with %q decision", d.Kind))
	default:
		panic(fmt.Sprintf("checkin: Apply called with unknown decision %q", d.Kind))
	}

	s.Bebits++
	s.TotalCheckins++
	s.LastCheckin = &now
	return s
}
