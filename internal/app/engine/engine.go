// Package engine implements the AgriPath gamification state engine.
// It owns the in-memory learner profile, applies optimistic local
// mutations, and reconciles them against the remote profile gateway's
// authoritative responses.
//
// Consistency model: the engine favors availability over strictness.
// Mutations apply to local state immediately, the local snapshot is
// persisted, and the matching gateway call runs on a goroutine. A gateway
// response overwrites local points/badges (never merge-add, to avoid
// double-counting); a gateway failure is logged and the optimistic value
// stands until the next successful reconciliation. There is deliberately
// no retry loop.
package engine

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/agripath-app/agripath/internal/domain"
	"github.com/agripath-app/agripath/internal/infra/metrics"
)

// CheckInReward is the fixed daily check-in point grant.
const CheckInReward = 5

// Ledger records local point mutations for the history views. Optional.
type Ledger interface {
	AppendPointsLog(domain.PointsEntry) error
}

// Config wires an Engine.
type Config struct {
	Gateway domain.ProfileGateway
	Store   domain.SnapshotStore
	Ledger  Ledger             // optional
	Clock   domain.Clock       // defaults to time.Now
	Rules   []domain.BadgeRule // defaults to domain.StandardBadgeRules()
}

// Engine is the single state container for the learner profile. All
// mutation funnels through its operations; UI consumers only ever see
// copies via Snapshot.
type Engine struct {
	mu      sync.Mutex
	profile domain.Profile

	gw     domain.ProfileGateway
	store  domain.SnapshotStore
	ledger Ledger
	now    domain.Clock
	rules  []domain.BadgeRule

	syncs sync.WaitGroup // in-flight gateway calls
}

// New creates an engine. State is empty until Initialize loads the local
// snapshot and merges the gateway's authoritative fields.
func New(cfg Config) *Engine {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	rules := cfg.Rules
	if rules == nil {
		rules = domain.StandardBadgeRules()
	}
	return &Engine{
		gw:     cfg.Gateway,
		store:  cfg.Store,
		ledger: cfg.Ledger,
		now:    now,
		rules:  rules,
	}
}

// Initialize loads the local snapshot for the device and merges the
// gateway's authoritative fields over it (server wins for points, badges,
// and display name when present). Gateway failure is tolerated: the local
// snapshot, or the zero default, carries the session.
func (e *Engine) Initialize(ctx context.Context, deviceID string) error {
	snap, err := e.store.LoadSnapshot()
	if err != nil {
		log.Printf("[engine] snapshot load failed, starting from defaults: %v", err)
		snap = domain.Profile{}
	}
	snap.DeviceID = deviceID

	e.mu.Lock()
	e.profile = snap
	e.updateGaugesLocked()
	e.mu.Unlock()

	remote, err := e.gw.InitProfile(ctx, deviceID, snap.DisplayName)
	if err != nil {
		log.Printf("[engine] profile init sync failed (using local snapshot): %v", err)
		return nil
	}
	e.reconcile(remote)
	return nil
}

// AddPoints applies a positive point delta optimistically and schedules
// the authoritative gateway update.
func (e *Engine) AddPoints(delta int, reason string) error {
	if delta <= 0 {
		return domain.ErrNonPositiveDelta
	}

	e.mu.Lock()
	e.profile.Points += delta
	e.logPointsLocked(delta, reason)
	e.persistLocked()
	e.evaluateBadgeRulesLocked()
	e.updateGaugesLocked()
	deviceID := e.profile.DeviceID
	e.mu.Unlock()

	metrics.PointsAwarded.WithLabelValues(reason).Add(float64(delta))

	e.async("add_points", func(ctx context.Context) (domain.RemoteProfile, error) {
		return e.gw.AddPoints(ctx, deviceID, delta, reason)
	})
	return nil
}

// SetDisplayName updates the display name locally and fires the persist
// call; there is no rollback on failure.
func (e *Engine) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyName
	}

	e.mu.Lock()
	e.profile.DisplayName = name
	e.persistLocked()
	deviceID := e.profile.DeviceID
	e.mu.Unlock()

	e.asyncAck("set_name", func(ctx context.Context) error {
		return e.gw.SetDisplayName(ctx, deviceID, name)
	})
	return nil
}

// SetSimpleMode stores the simplified-UI preference. It is written both
// into the snapshot and under its own key so it survives snapshot loss.
func (e *Engine) SetSimpleMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.SimpleMode = on
	if err := e.store.SetSimpleMode(on); err != nil {
		log.Printf("[engine] simple mode persist failed: %v", err)
	}
	e.persistLocked()
}

// AttachAccount records a linked account and, only when no local display
// name exists, seeds one from the account's full name or the local part
// of its email.
func (e *Engine) AttachAccount(acct domain.Account) {
	e.mu.Lock()
	acctCopy := acct
	e.profile.Account = &acctCopy

	seeded := ""
	if strings.TrimSpace(e.profile.DisplayName) == "" {
		seeded = acct.FullName
		if seeded == "" {
			seeded, _, _ = strings.Cut(acct.Email, "@")
		}
		e.profile.DisplayName = seeded
	}
	e.persistLocked()
	deviceID := e.profile.DeviceID
	e.mu.Unlock()

	if seeded != "" {
		e.asyncAck("set_name", func(ctx context.Context) error {
			return e.gw.SetDisplayName(ctx, deviceID, seeded)
		})
	}
}

// DetachAccount clears the linked account and display name. Device-keyed
// state — points, badges, streak — stays intact locally and remotely.
func (e *Engine) DetachAccount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profile.Account = nil
	e.profile.DisplayName = ""
	e.persistLocked()
}

// RefreshProfile is the explicit reconciliation point: an unconditional
// pull that overwrites local name/points/badges with server values. Meant
// for callers that just mutated remote state outside the engine's own
// optimistic paths (marketplace redemption, admin adjustments).
func (e *Engine) RefreshProfile(ctx context.Context) error {
	e.mu.Lock()
	deviceID := e.profile.DeviceID
	e.mu.Unlock()

	remote, err := e.gw.FetchProfile(ctx, deviceID)
	if err != nil {
		return err
	}
	e.reconcile(remote)
	return nil
}

// Snapshot returns a copy of the current profile.
func (e *Engine) Snapshot() domain.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.Clone()
}

// Level derives the current level from points.
func (e *Engine) Level() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.LevelForPoints(e.profile.Points)
}

// Wait blocks until all in-flight gateway syncs have settled. Used by
// shutdown and tests; normal operations never block on it.
func (e *Engine) Wait() {
	e.syncs.Wait()
}

// ─── Reconciliation ─────────────────────────────────────────────────────────

// reconcile overwrites local state with the authoritative fields present
// in a gateway response. Overwrite, not merge-add: the optimistic delta
// was already counted server-side, adding it again would double-count.
func (e *Engine) reconcile(remote domain.RemoteProfile) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if remote.Points != nil {
		e.profile.Points = *remote.Points
	}
	if remote.Badges != nil {
		e.profile.Badges = append([]string(nil), remote.Badges...)
	}
	if remote.DisplayName != nil && *remote.DisplayName != "" {
		e.profile.DisplayName = *remote.DisplayName
	}

	e.persistLocked()
	e.evaluateBadgeRulesLocked()
	e.updateGaugesLocked()
}

// ─── Internals (callers hold e.mu) ──────────────────────────────────────────

// persistLocked saves the snapshot; failure is non-fatal — state remains
// correct in memory for the session.
func (e *Engine) persistLocked() {
	if err := e.store.SaveSnapshot(e.profile); err != nil {
		log.Printf("[engine] snapshot save failed: %v", err)
	}
}

func (e *Engine) logPointsLocked(delta int, reason string) {
	if e.ledger == nil {
		return
	}
	err := e.ledger.AppendPointsLog(domain.PointsEntry{
		Time:    e.now(),
		Delta:   delta,
		Reason:  reason,
		Balance: e.profile.Points,
	})
	if err != nil {
		log.Printf("[engine] points log append failed: %v", err)
	}
}

func (e *Engine) updateGaugesLocked() {
	metrics.ProfilePoints.Set(float64(e.profile.Points))
	metrics.StreakDays.Set(float64(e.profile.StreakDays))
}

// async runs a gateway call off the caller's path and reconciles its
// response. On failure the optimistic local value stands.
func (e *Engine) async(op string, call func(context.Context) (domain.RemoteProfile, error)) {
	e.syncs.Add(1)
	go func() {
		defer e.syncs.Done()
		remote, err := call(context.Background())
		if err != nil {
			metrics.SyncFailures.Inc()
			log.Printf("[engine] %s sync failed (keeping optimistic state): %v", op, err)
			return
		}
		e.reconcile(remote)
	}()
}

// asyncAck is async for calls whose response carries no profile fields.
func (e *Engine) asyncAck(op string, call func(context.Context) error) {
	e.syncs.Add(1)
	go func() {
		defer e.syncs.Done()
		if err := call(context.Background()); err != nil {
			metrics.SyncFailures.Inc()
			log.Printf("[engine] %s sync failed (keeping optimistic state): %v", op, err)
		}
	}()
}
