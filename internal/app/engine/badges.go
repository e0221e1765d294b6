package engine

import (
	"context"
	"strings"

	"github.com/agripath-app/agripath/internal/domain"
	"github.com/agripath-app/agripath/internal/infra/metrics"
)

// AwardBadge adds a badge to the profile. Already-present badges are a
// no-op, so repeated awarding is safe. The gateway award is idempotent
// server-side; its response replaces the local badge set.
func (e *Engine) AwardBadge(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrEmptyBadge
	}

	e.mu.Lock()
	e.awardBadgeLocked(name)
	e.mu.Unlock()
	return nil
}

// awardBadgeLocked performs the optimistic award. Returns false when the
// badge was already present. Caller holds e.mu.
func (e *Engine) awardBadgeLocked(name string) bool {
	if e.profile.HasBadge(name) {
		return false
	}

	e.profile.Badges = append(e.profile.Badges, name)
	e.persistLocked()
	metrics.BadgesUnlocked.Inc()

	deviceID := e.profile.DeviceID
	e.async("award_badge", func(ctx context.Context) (domain.RemoteProfile, error) {
		return e.gw.AwardBadge(ctx, deviceID, name)
	})
	return true
}

// evaluateBadgeRulesLocked runs the declarative eligibility pass: every
// rule whose predicate holds for the current profile awards its badge.
// Runs after every points or streak change; awarding is idempotent so
// repeated evaluation is safe. Caller holds e.mu.
func (e *Engine) evaluateBadgeRulesLocked() {
	for _, rule := range e.rules {
		if rule.Check(e.profile) {
			e.awardBadgeLocked(rule.Name)
		}
	}
}
