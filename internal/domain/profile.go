// Package domain holds the AgriPath learner-profile types and the
// interfaces between layers. Infrastructure implements the interfaces;
// the application layer depends on them.
package domain

import "time"

// Profile is the device-keyed learner record. It is owned by the
// gamification engine — all mutation goes through engine operations,
// never through direct field writes.
type Profile struct {
	DeviceID     string    `json:"device_id"`
	DisplayName  string    `json:"display_name"`
	Points       int       `json:"points"`
	Badges       []string  `json:"badges"` // insertion-ordered, no duplicates
	StreakDays   int       `json:"streak_days"`
	LastActivity time.Time `json:"last_activity"` // midnight-normalized
	LastCheckIn  time.Time `json:"last_check_in"` // midnight-normalized
	SimpleMode   bool      `json:"simple_mode"`
	Account      *Account  `json:"account,omitempty"`
}

// Account identifies a linked authenticated user. Its lifecycle belongs
// to the remote auth service; the profile only holds a weak reference.
type Account struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// HasBadge reports whether the badge is already in the (ordered) set.
func (p Profile) HasBadge(name string) bool {
	for _, b := range p.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to concurrent readers.
func (p Profile) Clone() Profile {
	out := p
	out.Badges = append([]string(nil), p.Badges...)
	if p.Account != nil {
		acct := *p.Account
		out.Account = &acct
	}
	return out
}

// RemoteProfile carries the authoritative fields a gateway response may
// return. Nil/absent fields mean "no authoritative update" — the engine
// keeps its local value for those.
type RemoteProfile struct {
	DisplayName *string  `json:"user_name"`
	Points      *int     `json:"points"`
	Badges      []string `json:"badges"`
}

// Day truncates t to local midnight. Streak and check-in arithmetic works
// on these normalized dates only.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole calendar days from a to b (both are
// normalized first, so clock time and DST shifts do not skew the count).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Round(24*time.Hour) / (24 * time.Hour))
}

// Clock is an injectable time source so day-boundary logic is testable
// without waiting on real calendar days.
type Clock func() time.Time
