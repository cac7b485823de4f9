package engine

import (
	"github.com/treebjj/academy-hub/internal/domain/finance"
	"github.com/treebjj/academy-hub/internal/domain/student"
)

// Seed data for a fresh installation. Kept small on purpose: enough for
// the desk to demo every screen before real data exists.

// SeedStudents returns the starter roster.
func SeedStudents() []*student.Student {
	return []*student.Student{
		{
			ID:             "stu-1",
			Name:           "Carlos Oliveira",
			BirthDate:      "1990-05-15",
			CPF:            "123.456.789-00",
			Phone:          "11999999999",
			Email:          "carlos@example.com",
			Address:        "Rua das Flores, 123",
			PlanID:         "plan-1",
			EnrollmentDate: "2023-01-10",
			Status:         student.StatusActive,
			PhotoURL:       "https://picsum.photos/seed/carlos/200",
			Belt:           student.BeltBlue,
			Stripes:        2,
			GraduationHistory: []student.GraduationEntry{
				{Date: "2023-01-10", Belt: student.BeltWhite, Stripes: 0},
				{Date: "2023-12-10", Belt: student.BeltBlue, Stripes: 0},
			},
			AttendanceCount: 45,
		},
		{
			ID:             "stu-2",
			Name:           "Ana Silva",
			BirthDate:      "1995-08-22",
			CPF:            "987.654.321-11",
			Phone:          "11888888888",
			Email:          "ana@example.com",
			Address:        "Av Principal, 456",
			PlanID:         "plan-3",
			EnrollmentDate: "2023-03-15",
			Status:         student.StatusActive,
			PhotoURL:       "https://picsum.photos/seed/ana/200",
			Belt:           student.BeltWhite,
			Stripes:        3,
			GraduationHistory: []student.GraduationEntry{
				{Date: "2023-03-15", Belt: student.BeltWhite, Stripes: 0},
			},
			AttendanceCount: 32,
		},
	}
}

// SeedFinancials returns the starter ledger. Amounts are in centavos.
func SeedFinancials() []*finance.Record {
	return []*finance.Record{
		{
			ID:          "fin-1",
			StudentID:   "stu-1",
			Category:    "Mensalidade",
			Description: "Carlos Oliveira - Maio",
			Amount:      25000,
			Date:        "2024-05-01",
			Type:        finance.TypeIncome,
			Status:      finance.StatusPaid,
		},
		{
			ID:          "fin-2",
			StudentID:   "stu-2",
			Category:    "Mensalidade",
			Description: "Ana Silva - Maio",
			Amount:      20000,
			Date:        "2024-05-05",
			Type:        finance.TypeIncome,
			Status:      finance.StatusPending,
		},
		{
			ID:          "fin-3",
			Category:    "Aluguel",
			Description: "Aluguel do Dojô",
			Amount:      350000,
			Date:        "2024-05-01",
			Type:        finance.TypeExpense,
			Status:      finance.StatusPaid,
		},
		{
			ID:          "fin-4",
			Category:    "Energia",
			Description: "Conta de Luz",
			Amount:      45000,
			Date:        "2024-05-10",
			Type:        finance.TypeExpense,
			Status:      finance.StatusPaid,
		},
	}
}
