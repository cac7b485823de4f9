package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	name string
	runs int
}

func (j *countingJob) Name() string                  { return j.name }
func (j *countingJob) Description() string           { return "counts runs" }
func (j *countingJob) Run(ctx context.Context) error { j.runs++; return nil }

func TestRegisterRejectsDuplicates(t *testing.T) {
	s := New(nil, nil)

	job := &countingJob{name: "pull"}
	assert.NoError(t, s.Register(job, Every(15*time.Second)))
	assert.ErrorIs(t, s.Register(job, Every(15*time.Second)), ErrJobAlreadyExists)

	assert.ErrorIs(t, s.Register(nil, Every(time.Second)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&countingJob{name: "x"}, nil), ErrNilSchedule)
}

func TestRunNow(t *testing.T) {
	s := New(nil, nil)
	job := &countingJob{name: "pull"}
	s.Register(job, Every(time.Hour))

	assert.NoError(t, s.RunNow(context.Background(), "pull"))
	assert.Equal(t, 1, job.runs)

	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)
}

func TestStartStop(t *testing.T) {
	s := New(nil, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
	assert.NoError(t, s.Stop())
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
}

func TestIntervalSchedule(t *testing.T) {
	sched := Every(15 * time.Second)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(15*time.Second), sched.Next(now))
	assert.Equal(t, "@every 15s", sched.String())
}

func TestManualClockAdvanceFiresInOrder(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	var order []string
	clock.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	clock.AfterFunc(1*time.Second, func() { order = append(order, "a") })

	clock.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestManualClockTimerReset(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))

	fired := 0
	timer := clock.AfterFunc(2*time.Second, func() { fired++ })

	clock.Advance(1 * time.Second)
	timer.Reset(2 * time.Second)
	clock.Advance(1 * time.Second)
	assert.Equal(t, 0, fired)

	clock.Advance(1 * time.Second)
	assert.Equal(t, 1, fired)
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))

	fired := 0
	d := NewDebouncer(clock, 2*time.Second, func() { fired++ })

	// Three triggers inside the quiet window collapse to one fire.
	d.Trigger()
	clock.Advance(1 * time.Second)
	d.Trigger()
	clock.Advance(1 * time.Second)
	d.Trigger()
	assert.Equal(t, 0, fired)

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, fired)
	assert.False(t, d.Pending())
}

func TestDebouncerFiresAgainAfterNewTrigger(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))

	fired := 0
	d := NewDebouncer(clock, 2*time.Second, func() { fired++ })

	d.Trigger()
	clock.Advance(2 * time.Second)
	d.Trigger()
	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, fired)
}

func TestDebouncerStop(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))

	fired := 0
	d := NewDebouncer(clock, 2*time.Second, func() { fired++ })

	d.Trigger()
	d.Stop()
	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, fired)

	// Triggers after Stop are ignored.
	d.Trigger()
	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, fired)
}
