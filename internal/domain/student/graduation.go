package student

// ══════════════════════════════════════════════════════════════════════════════
// GRADUATION RULES
// ══════════════════════════════════════════════════════════════════════════════

// GraduationRule defines, for one belt, how many classes must be attended
// and how many months must pass before the student is ready to advance.
type GraduationRule struct {
	// Belt is the rank the rule applies to.
	Belt Belt `json:"belt"`

	// ClassesRequired is the attendance count needed at this belt.
	ClassesRequired int `json:"classesRequired"`

	// MonthsRequired is the minimum time on this belt, in months.
	MonthsRequired int `json:"monthsRequired"`
}

// DefaultGraduationRules returns the rules an academy starts with. Belts
// without a rule never trigger graduation alerts until one is configured.
func DefaultGraduationRules() []GraduationRule {
	return []GraduationRule{
		{Belt: BeltWhite, ClassesRequired: 40, MonthsRequired: 4},
		{Belt: BeltBlue, ClassesRequired: 150, MonthsRequired: 24},
		{Belt: BeltPurple, ClassesRequired: 200, MonthsRequired: 24},
		{Belt: BeltBrown, ClassesRequired: 250, MonthsRequired: 12},
	}
}

// RuleForBelt finds the rule covering the given belt. The second return is
// false when no rule is configured for that rank.
func RuleForBelt(rules []GraduationRule, belt Belt) (GraduationRule, bool) {
	for _, rule := range rules {
		if rule.Belt == belt {
			return rule, true
		}
	}
	return GraduationRule{}, false
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

// Progress describes how far a student has come toward the next belt.
type Progress struct {
	StudentID string  `json:"studentId"`
	Name      string  `json:"name"`
	Belt      Belt    `json:"belt"`
	Attended  int     `json:"attended"`
	Required  int     `json:"required"`
	Percent   float64 `json:"percent"`
	Eligible  bool    `json:"eligible"`
}

// ComputeProgress evaluates a student against the configured rules. The
// second return is false when the student's current belt has no rule, in
// which case no alert should be raised for them.
func ComputeProgress(s *Student, rules []GraduationRule) (Progress, bool) {
	rule, ok := RuleForBelt(rules, s.Belt)
	if !ok {
		return Progress{}, false
	}

	progress := Progress{
		StudentID: s.ID,
		Name:      s.Name,
		Belt:      s.Belt,
		Attended:  s.AttendanceCount,
		Required:  rule.ClassesRequired,
		Eligible:  s.AttendanceCount >= rule.ClassesRequired,
	}
	if rule.ClassesRequired > 0 {
		progress.Percent = float64(s.AttendanceCount) / float64(rule.ClassesRequired) * 100
		if progress.Percent > 100 {
			progress.Percent = 100
		}
	}
	return progress, true
}
