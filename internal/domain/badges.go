package domain

// BadgeRule is a declarative eligibility rule: a pure predicate over
// profile state mapping to a badge name. Rules are evaluated after every
// points or streak change; adding a badge is a data change here, not a
// control-flow change in the engine.
type BadgeRule struct {
	Name  string
	Check func(Profile) bool
}

// Badge names awarded explicitly by callers (module completion, special
// courses, marketplace events) rather than derived from rules.
const (
	BadgeModulePrefix = "Module: "
	BadgeMarketSaver  = "Market Saver"
	BadgeCertified    = "Certified Farmer"
)

// StandardBadgeRules returns the built-in streak and point-milestone
// rules. Point badges keep their threshold in the display name — the web
// UI renders them verbatim.
func StandardBadgeRules() []BadgeRule {
	return []BadgeRule{
		// Streak rules
		{Name: "Starter", Check: func(p Profile) bool { return p.StreakDays >= 1 }},
		{Name: "3-Day Streak", Check: func(p Profile) bool { return p.StreakDays >= 3 }},
		{Name: "1-Week Streak", Check: func(p Profile) bool { return p.StreakDays >= 7 }},

		// Point milestones
		{Name: "Rising Farmer (100 pts)", Check: func(p Profile) bool { return p.Points >= 100 }},
		{Name: "Skilled Cultivator (250 pts)", Check: func(p Profile) bool { return p.Points >= 250 }},
		{Name: "Expert Agronomist (500 pts)", Check: func(p Profile) bool { return p.Points >= 500 }},
		{Name: "Master of Fields (1000 pts)", Check: func(p Profile) bool { return p.Points >= 1000 }},
	}
}
