package chrono

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := NewStandardTime().Sleep(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}

func TestStandardSleep(t *testing.T) {
	err := NewStandardTime().Sleep(context.Background(), time.Millisecond)
	require.NoError(t, err)
}

func TestFakeTime(t *testing.T) {
	start := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	fake := NewFakeTime(start)

	require.NoError(t, fake.Sleep(context.Background(), 5*time.Second))
	require.NoError(t, fake.Sleep(context.Background(), 5*time.Second))
	require.Equal(t, start.Add(10*time.Second), fake.Now())
	require.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, fake.Sleeps())
}
