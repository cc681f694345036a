package variant

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerOnlyLastScheduledRuns(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var first, last int32
	d.Schedule(func() { atomic.AddInt32(&first, 1) })
	d.Schedule(func() { atomic.AddInt32(&last, 1) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first))
	assert.Equal(t, int32(1), atomic.LoadInt32(&last))
}

func TestDebouncerResetsWindowOnEachEdit(t *testing.T) {
	d := NewDebouncer(40 * time.Millisecond)
	defer d.Stop()

	var runs int32
	for i := 0; i < 5; i++ {
		d.Schedule(func() { atomic.AddInt32(&runs, 1) })
		time.Sleep(10 * time.Millisecond)
	}
	// Still inside the window of the last edit.
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var runs int32
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))

	// Scheduling after Stop is ignored rather than resurrecting the timer.
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestDebouncerFlushRunsPendingNow(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	var runs int32
	d.Schedule(func() { atomic.AddInt32(&runs, 1) })
	d.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	// Nothing pending, nothing runs.
	d.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}
