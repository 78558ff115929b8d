package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerQueueOrder(t *testing.T) {
	q := NewTimerQueue()
	var got []string
	rec := func(name string) func() { return func() { got = append(got, name) } }

	q.Schedule(30*time.Millisecond, rec("c"))
	q.Schedule(10*time.Millisecond, rec("a1"))
	q.Schedule(10*time.Millisecond, rec("a2"))
	q.Schedule(20*time.Millisecond, func() {
		got = append(got, "b")
		// Already due: runs in this Advance.
		q.Schedule(15*time.Millisecond, rec("late"))
		// Not due yet.
		q.Schedule(50*time.Millisecond, rec("next"))
	})

	assert.Equal(t, 0, q.Advance(5*time.Millisecond))
	assert.Equal(t, 5, q.Advance(30*time.Millisecond))
	assert.Equal(t, []string{"a1", "a2", "b", "late", "c"}, got)
	assert.Equal(t, 1, q.Len())

	q.Advance(time.Second)
	assert.Equal(t, "next", got[len(got)-1])
	assert.Zero(t, q.Len())
}

func TestTimerStop(t *testing.T) {
	q := NewTimerQueue()
	fired := false
	tm := q.Schedule(10*time.Millisecond, func() { fired = true })
	other := q.Schedule(5*time.Millisecond, func() {})

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second stop is a no-op")

	q.Advance(time.Second)
	assert.False(t, fired)
	assert.False(t, other.Stop(), "stopping a fired timer fails")
}

func TestTimerQueueClear(t *testing.T) {
	q := NewTimerQueue()
	tm := q.Schedule(time.Millisecond, func() { t.Fatal("cleared timer fired") })
	q.Clear()
	assert.Zero(t, q.Advance(time.Second))
	assert.False(t, tm.Stop())
}
