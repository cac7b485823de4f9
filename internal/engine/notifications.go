package engine

import (
	"fmt"

	"github.com/treebjj/academy-hub/internal/domain/student"
)

// recomputeNotifications rebuilds the graduation alert list from scratch:
// one line per student whose attendance count has reached the classes
// threshold of the rule matching their current belt. The previous list is
// fully replaced, never accumulated. Caller must hold e.mu.
func (e *Engine) recomputeNotifications() {
	alerts := make([]string, 0)
	for _, s := range e.students {
		rule, ok := student.RuleForBelt(e.rules, s.Belt)
		if !ok {
			continue
		}
		if s.AttendanceCount >= rule.ClassesRequired {
			alerts = append(alerts, fmt.Sprintf(
				"Apta Graduação: %s atingiu %d/%d aulas.",
				s.Name, s.AttendanceCount, rule.ClassesRequired,
			))
		}
	}
	e.notifications = alerts
}
