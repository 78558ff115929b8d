package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerDebounces(t *testing.T) {
	var events []Event
	tr := NewTracker(func(ev Event) { events = append(events, ev) })

	assert.True(t, tr.Press(KeyLeft, 10*time.Millisecond))
	assert.False(t, tr.Press(KeyLeft, 20*time.Millisecond), "repeated down is a no-op")
	assert.True(t, tr.Press(KeyFire, 30*time.Millisecond))
	assert.True(t, tr.Release(KeyLeft, 40*time.Millisecond))
	assert.False(t, tr.Release(KeyLeft, 50*time.Millisecond), "repeated up is a no-op")
	assert.Equal(t, Keys(KeyFire), tr.Held())

	tr.Reset(60 * time.Millisecond)
	assert.Equal(t, KeySet(0), tr.Held())

	require.Len(t, events, 4)
	assert.Equal(t, EventDown, events[0].Type)
	assert.Equal(t, "left", events[0].Code)
	assert.True(t, events[0].State.Left)
	assert.Equal(t, Flags{Shoot: true}, events[2].State)
	assert.Equal(t, EventReset, events[3].Type)
	assert.Equal(t, Flags{}, events[3].State)
}

func TestSequenceAt(t *testing.T) {
	seq := NewSequence(
		Step{At: 1000 * time.Millisecond, Keys: Keys(KeyUp)},
		Step{At: 500 * time.Millisecond, Keys: Keys(KeyLeft)},
		Step{At: 2000 * time.Millisecond, Keys: 0},
	)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    KeySet
	}{
		{"before first step uses first", 0, Keys(KeyLeft)},
		{"exactly at first step", 500 * time.Millisecond, Keys(KeyLeft)},
		{"between steps", 999 * time.Millisecond, Keys(KeyLeft)},
		{"exactly at transition", 1000 * time.Millisecond, Keys(KeyUp)},
		{"after last", time.Hour, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seq.At(tt.elapsed))
		})
	}

	assert.Equal(t, KeySet(0), Sequence(nil).At(time.Second))
	assert.Equal(t, 2*time.Second, seq.Duration())
}

func TestNamedSequences(t *testing.T) {
	for _, name := range SequenceNames {
		seq, err := NamedSequence(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, seq, name)
	}

	shoot, err := NamedSequence("user-shoot-test")
	require.NoError(t, err)
	assert.Len(t, shoot, 100)
	assert.Equal(t, Keys(KeyFire), shoot.At(1200*time.Millisecond))
	assert.Equal(t, KeySet(0), shoot.At(1250*time.Millisecond))

	thrust, err := NamedSequence("user-thrust-test")
	require.NoError(t, err)
	assert.Equal(t, Keys(KeyDown), thrust.At(7*time.Second))

	_, err = NamedSequence("nope")
	assert.ErrorIs(t, err, ErrUnknownSequence)
}

func TestOverride(t *testing.T) {
	seq, err := NamedSequence("rotate-test")
	require.NoError(t, err)

	o := NewOverride()
	o.SetSequence(seq)
	_, ok := o.Current()
	assert.False(t, ok, "disabled source asserts nothing")

	o.SetEnabled(true)
	o.Update(10 * time.Second) // start time fixed on first update
	assert.True(t, o.Running())
	keys, ok := o.Current()
	require.True(t, ok)
	assert.Equal(t, KeySet(0), keys)

	o.Update(10*time.Second + 600*time.Millisecond)
	keys, _ = o.Current()
	assert.Equal(t, Keys(KeyLeft), keys)

	// Reset restarts the script from "now".
	o.Reset()
	assert.Equal(t, time.Duration(0), o.Elapsed())
	keys, _ = o.Current()
	assert.Equal(t, KeySet(0), keys)
	assert.Len(t, o.Sequence(), len(seq))

	// Manual input wins over the script.
	o.SetManual(Keys(KeyFire))
	keys, _ = o.Current()
	assert.Equal(t, Keys(KeyFire), keys)

	o.SetEnabled(false)
	o.SetManual(Keys(KeyUp))
	o.SetEnabled(true)
	o.Update(11 * time.Second)
	keys, _ = o.Current()
	assert.Equal(t, KeySet(0), keys, "manual state set while disabled is dropped")
}

func TestResolveOrsSources(t *testing.T) {
	o := NewOverride()
	assert.Equal(t, Keys(KeyLeft), Resolve(Keys(KeyLeft), nil))
	assert.Equal(t, Keys(KeyLeft), Resolve(Keys(KeyLeft), o))

	o.SetEnabled(true)
	o.SetManual(Keys(KeyUp))
	assert.Equal(t, Keys(KeyLeft, KeyUp), Resolve(Keys(KeyLeft), o))
}

func TestLoadSequence(t *testing.T) {
	doc := `
steps:
  - at: 1500ms
    keys: [left, fire]
  - at: 0s
    keys: [up]
  - at: 3s
`
	seq, err := LoadSequence(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, seq, 3)
	assert.Equal(t, Keys(KeyUp), seq.At(time.Second))
	assert.Equal(t, Keys(KeyLeft, KeyFire), seq.At(2*time.Second))
	assert.Equal(t, KeySet(0), seq.At(3*time.Second))

	_, err = LoadSequence(strings.NewReader("steps:\n  - at: 1s\n    keys: [jump]\n"))
	assert.ErrorContains(t, err, "jump")
}

func TestParseBytes(t *testing.T) {
	f := parseBytes([]byte("\x1b[A\x1b[Dx \r"))
	assert.Equal(t, Keys(KeyUp, KeyLeft, KeyFire), f.Pressed)
	assert.True(t, f.Unbound)
	assert.True(t, f.Enter)
	assert.True(t, f.AnyKey)
	assert.Equal(t, []rune{'x', ' '}, f.Typed)

	f = parseBytes([]byte("q\x7f\x1b"))
	assert.True(t, f.Quit)
	assert.False(t, f.Interrupt)
	assert.True(t, f.Backspace)
	assert.True(t, f.Escape)

	assert.True(t, parseBytes([]byte{0x03}).Interrupt)
	assert.False(t, parseBytes(nil).AnyKey)
}

func TestStreamHoldsKeys(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("w")))

	start := time.Now()
	var f Frame
	require.Eventually(t, func() bool {
		f = s.Poll(start)
		return f.Pressed.Has(KeyUp)
	}, time.Second, time.Millisecond)
	assert.True(t, f.Held.Has(KeyUp))

	f = s.Poll(start.Add(DefaultHoldDuration / 2))
	assert.True(t, f.Held.Has(KeyUp), "still held inside the hold window")

	f = s.Poll(start.Add(DefaultHoldDuration))
	assert.False(t, f.Held.Has(KeyUp))

	require.Eventually(t, func() bool { return s.Poll(start).Closed }, time.Second, time.Millisecond)
}
