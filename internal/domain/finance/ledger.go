package finance

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// SUMMARIES
// ══════════════════════════════════════════════════════════════════════════════

// Summary aggregates a slice of ledger entries. All values are in centavos.
type Summary struct {
	// Income is the sum of confirmed income.
	Income int64 `json:"income"`

	// Expenses is the sum of confirmed expenses.
	Expenses int64 `json:"expenses"`

	// Balance is Income minus Expenses.
	Balance int64 `json:"balance"`

	// Pending is the sum of income entries awaiting confirmation,
	// overdue ones included.
	Pending int64 `json:"pending"`
}

// Summarize folds the records into totals. Only paid entries count toward
// income, expenses and balance; pending and overdue income accumulates
// separately so the desk can chase it.
func Summarize(records []*Record) Summary {
	var s Summary
	for _, r := range records {
		switch {
		case r.Type == TypeIncome && r.Status == StatusPaid:
			s.Income += r.Amount
		case r.Type == TypeExpense && r.Status == StatusPaid:
			s.Expenses += r.Amount
		case r.Type == TypeIncome:
			s.Pending += r.Amount
		}
	}
	s.Balance = s.Income - s.Expenses
	return s
}

// SummarizeMonth is Summarize restricted to entries of one calendar month.
// The month is given as "2006-01" and matched against the date prefix.
func SummarizeMonth(records []*Record, month string) Summary {
	filtered := make([]*Record, 0, len(records))
	for _, r := range records {
		if strings.HasPrefix(r.Date, month) {
			filtered = append(filtered, r)
		}
	}
	return Summarize(filtered)
}

// ForStudent returns the entries referencing the given student, in the
// order they appear in the ledger.
func ForStudent(records []*Record, studentID string) []*Record {
	out := make([]*Record, 0)
	for _, r := range records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out
}
