package domain

import (
	"testing"
	"time"
)

func TestDay_TruncatesToMidnight(t *testing.T) {
	in := time.Date(2025, 7, 3, 18, 45, 12, 999, time.UTC)
	got := Day(in)
	want := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", in, got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2025, 7, 1, 23, 50, 0, 0, time.UTC)
	cases := []struct {
		b    time.Time
		want int
	}{
		{time.Date(2025, 7, 1, 0, 10, 0, 0, time.UTC), 0},  // same calendar day
		{time.Date(2025, 7, 2, 0, 5, 0, 0, time.UTC), 1},   // just past midnight
		{time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC), 3},  // multi-day gap
		{time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC), -1}, // clock went backwards
	}
	for _, c := range cases {
		if got := DaysBetween(base, c.b); got != c.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", base, c.b, got, c.want)
		}
	}
}

func TestHasBadge(t *testing.T) {
	p := Profile{Badges: []string{"Starter", "3-Day Streak"}}
	if !p.HasBadge("Starter") {
		t.Error("expected Starter")
	}
	if p.HasBadge("1-Week Streak") {
		t.Error("unexpected 1-Week Streak")
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := Profile{
		Badges:  []string{"Starter"},
		Account: &Account{ID: 1, Email: "a@b.c"},
	}
	c := orig.Clone()
	c.Badges[0] = "Mutated"
	c.Account.Email = "x@y.z"

	if orig.Badges[0] != "Starter" {
		t.Errorf("badge slice shared: %v", orig.Badges)
	}
	if orig.Account.Email != "a@b.c" {
		t.Errorf("account shared: %+v", orig.Account)
	}
}

func TestStandardBadgeRules_Thresholds(t *testing.T) {
	rules := StandardBadgeRules()
	byName := map[string]BadgeRule{}
	for _, r := range rules {
		byName[r.Name] = r
	}

	cases := []struct {
		badge   string
		profile Profile
		want    bool
	}{
		{"Starter", Profile{StreakDays: 1}, true},
		{"Starter", Profile{}, false},
		{"3-Day Streak", Profile{StreakDays: 2}, false},
		{"3-Day Streak", Profile{StreakDays: 3}, true},
		{"1-Week Streak", Profile{StreakDays: 7}, true},
		{"Rising Farmer (100 pts)", Profile{Points: 99}, false},
		{"Rising Farmer (100 pts)", Profile{Points: 100}, true},
		{"Master of Fields (1000 pts)", Profile{Points: 1000}, true},
	}
	for _, c := range cases {
		r, ok := byName[c.badge]
		if !ok {
			t.Fatalf("missing rule %q", c.badge)
		}
		if got := r.Check(c.profile); got != c.want {
			t.Errorf("%q with %+v = %v, want %v", c.badge, c.profile, got, c.want)
		}
	}
}

// Every rule must be monotone in points and streak: once a profile
// qualifies, growing either value never disqualifies it.
func TestStandardBadgeRules_Monotone(t *testing.T) {
	for _, r := range StandardBadgeRules() {
		for points := 0; points <= 1100; points += 50 {
			for streak := 0; streak <= 10; streak++ {
				p := Profile{Points: points, StreakDays: streak}
				if !r.Check(p) {
					continue
				}
				bigger := Profile{Points: points + 500, StreakDays: streak + 5}
				if !r.Check(bigger) {
					t.Fatalf("rule %q not monotone at points=%d streak=%d", r.Name, points, streak)
				}
			}
		}
	}
}
