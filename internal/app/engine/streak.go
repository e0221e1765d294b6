package engine

import (
	"context"

	"github.com/agripath-app/agripath/internal/domain"
	"github.com/agripath-app/agripath/internal/infra/metrics"
)

// TickStreak advances the activity streak. Called once per session start.
// The decision is purely local — no server round-trip:
//
//	no prior activity   → streak = 1
//	same day            → no-op
//	exactly one day gap → streak + 1
//	longer gap          → streak resets to 1
func (e *Engine) TickStreak() {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := domain.Day(e.now())

	if e.profile.LastActivity.IsZero() {
		e.profile.StreakDays = 1
	} else {
		switch gap := domain.DaysBetween(e.profile.LastActivity, today); {
		case gap == 0:
			return
		case gap == 1:
			e.profile.StreakDays++
		case gap > 1:
			e.profile.StreakDays = 1
		default:
			// Clock moved backwards — leave the streak alone.
			return
		}
	}

	e.profile.LastActivity = today
	e.persistLocked()
	e.evaluateBadgeRulesLocked()
	e.updateGaugesLocked()
}

// DailyCheckIn claims the once-per-day check-in reward. Returns false
// with no state change when today is already claimed. The compare and the
// state write happen under one lock hold, so a same-day double claim is
// impossible within this process; across devices the server total is the
// only protection.
func (e *Engine) DailyCheckIn() bool {
	e.mu.Lock()
	today := domain.Day(e.now())
	if !e.profile.LastCheckIn.IsZero() && domain.Day(e.profile.LastCheckIn).Equal(today) {
		e.mu.Unlock()
		return false
	}

	e.profile.LastCheckIn = today
	e.profile.Points += CheckInReward
	e.logPointsLocked(CheckInReward, "Daily Check-in")
	e.persistLocked()
	e.evaluateBadgeRulesLocked()
	e.updateGaugesLocked()
	deviceID := e.profile.DeviceID
	e.mu.Unlock()

	metrics.CheckInsClaimed.Inc()
	metrics.PointsAwarded.WithLabelValues("Daily Check-in").Add(CheckInReward)

	e.async("check_in", func(ctx context.Context) (domain.RemoteProfile, error) {
		return e.gw.AddPoints(ctx, deviceID, CheckInReward, "Daily Check-in")
	})
	return true
}
