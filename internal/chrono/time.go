package chrono

import (
	"context"
	"sync"
	"time"
)

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	Now() time.Time
	// Sleep blocks for `d` or until ctx is done, in which case ctx.Err() is returned.
	Sleep(ctx context.Context, d time.Duration) error
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now()
}

func (StandardTime) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FakeTime never blocks, it advances its clock by every requested sleep and
// remembers the durations.
type FakeTime struct {
	mutex  sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func NewFakeTime(start time.Time) *FakeTime {
	return &FakeTime{now: start}
}

func (f *FakeTime) Now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.now
}

func (f *FakeTime) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.now = f.now.Add(d)
	f.sleeps = append(f.sleeps, d)
	return nil
}

// Sleeps returns every duration passed to Sleep so far.
func (f *FakeTime) Sleeps() []time.Duration {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]time.Duration(nil), f.sleeps...)
}
