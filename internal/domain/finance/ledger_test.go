package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(t RecordType, status PaymentStatus, amount int64, date string) *Record {
	r, _ := NewRecord(NewRecordParams{
		ID:     "rec-" + date + string(t),
		Amount: amount,
		Date:   date,
		Type:   t,
		Status: status,
	})
	return r
}

func TestNewRecordValidation(t *testing.T) {
	_, err := NewRecord(NewRecordParams{ID: "x", Amount: -1, Type: TypeIncome})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewRecord(NewRecordParams{ID: "x", Amount: 100, Type: "TRANSFER"})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = NewRecord(NewRecordParams{ID: "x", Amount: 100, Type: TypeIncome, Status: "Maybe"})
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestNewRecordDefaultsToPending(t *testing.T) {
	r, err := NewRecord(NewRecordParams{ID: "x", Amount: 100, Type: TypeIncome})
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, r.Status)
	assert.False(t, r.CountsTowardBalance())

	r.MarkPaid()
	assert.True(t, r.CountsTowardBalance())
}

func TestSummarize(t *testing.T) {
	records := []*Record{
		record(TypeIncome, StatusPaid, 10000, "2024-05-01"),
		record(TypeIncome, StatusPaid, 27000, "2024-05-10"),
		record(TypeIncome, StatusPending, 10000, "2024-05-15"),
		record(TypeIncome, StatusOverdue, 10000, "2024-04-15"),
		record(TypeExpense, StatusPaid, 5000, "2024-05-03"),
		record(TypeExpense, StatusPending, 2000, "2024-05-20"),
	}

	s := Summarize(records)
	assert.Equal(t, int64(37000), s.Income)
	assert.Equal(t, int64(5000), s.Expenses)
	assert.Equal(t, int64(32000), s.Balance)
	// Pending counts unconfirmed income only, overdue included.
	assert.Equal(t, int64(20000), s.Pending)
}

func TestSummarizeMonth(t *testing.T) {
	records := []*Record{
		record(TypeIncome, StatusPaid, 10000, "2024-05-01"),
		record(TypeIncome, StatusPaid, 10000, "2024-04-01"),
		record(TypeExpense, StatusPaid, 3000, "2024-05-03"),
	}

	s := SummarizeMonth(records, "2024-05")
	assert.Equal(t, int64(10000), s.Income)
	assert.Equal(t, int64(3000), s.Expenses)
	assert.Equal(t, int64(7000), s.Balance)
}

func TestForStudent(t *testing.T) {
	a := record(TypeIncome, StatusPaid, 10000, "2024-05-01")
	a.StudentID = "stu-1"
	b := record(TypeIncome, StatusPaid, 10000, "2024-05-02")

	out := ForStudent([]*Record{a, b}, "stu-1")
	assert.Len(t, out, 1)
	assert.Equal(t, a.ID, out[0].ID)
}
