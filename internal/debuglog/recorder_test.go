package debuglog

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/figs-in-space/internal/input"
)

func frame(at time.Duration, score int) FrameState {
	return FrameState{Timestamp: at, Score: score}
}

func TestRecorderDisabledKeepsNothing(t *testing.T) {
	r := New(Options{})
	r.LogState(frame(0, 1))
	r.LogInput(input.Event{At: 0, Type: input.EventDown, Code: "left"})
	assert.Empty(t, r.History())
	assert.Empty(t, r.Inputs())
}

func TestRecorderThrottlesOnSessionClock(t *testing.T) {
	r := New(Options{Enabled: true})
	for ms := 0; ms <= 1000; ms += 16 {
		r.LogState(frame(time.Duration(ms)*time.Millisecond, ms))
	}
	h := r.History()
	require.NotEmpty(t, h)
	assert.Equal(t, time.Duration(0), h[0].Timestamp)
	for i := 1; i < len(h); i++ {
		assert.GreaterOrEqual(t, h[i].Timestamp-h[i-1].Timestamp, 100*time.Millisecond)
	}
	assert.Len(t, h, 9)
}

func TestRecorderRingBounds(t *testing.T) {
	r := New(Options{Enabled: true, HistorySize: 3, Interval: time.Millisecond, InputSize: 2})
	for i := 0; i < 10; i++ {
		at := time.Duration(i) * time.Millisecond
		r.LogState(frame(at, i))
		r.LogInput(input.Event{At: at, Type: input.EventDown, Code: "fire"})
	}

	h := r.History()
	require.Len(t, h, 3)
	assert.Equal(t, []int{7, 8, 9}, []int{h[0].Score, h[1].Score, h[2].Score})
	assert.Len(t, r.Inputs(), 2)

	r.Clear()
	assert.Empty(t, r.History())
	assert.Empty(t, r.Inputs())
}

func TestRecorderMaxDuration(t *testing.T) {
	r := New(Options{Enabled: true, Interval: time.Millisecond, MaxDuration: 500 * time.Millisecond})
	r.LogState(frame(time.Second, 1))
	r.LogState(frame(1500*time.Millisecond, 2))
	r.LogState(frame(1501*time.Millisecond, 3))
	assert.Len(t, r.History(), 2, "window starts at the first record")

	r.SetEnabled(true)
	r.LogState(frame(3*time.Second, 4))
	assert.Len(t, r.History(), 3, "re-enabling restarts the window")
}

func TestRecorderAsTrackerSink(t *testing.T) {
	r := New(Options{Enabled: true})
	tr := input.NewTracker(r.LogInput)
	tr.Press(input.KeyUp, 10*time.Millisecond)
	tr.Press(input.KeyUp, 20*time.Millisecond)
	tr.Reset(30 * time.Millisecond)

	evs := r.Inputs()
	require.Len(t, evs, 2)
	assert.Equal(t, input.EventDown, evs[0].Type)
	assert.True(t, evs[0].State.Up)
	assert.Equal(t, input.EventReset, evs[1].Type)
	assert.False(t, evs[1].State.Up)
}

func TestExportFormats(t *testing.T) {
	r := New(Options{Enabled: true})
	r.SetSession("abc")
	r.LogState(FrameState{Timestamp: 0, Score: 120, LaserPositions: []Point{{X: 1, Y: 2}}})
	r.LogInput(input.Event{At: 5 * time.Millisecond, Type: input.EventDown, Code: "left"})

	var js bytes.Buffer
	require.NoError(t, r.Export(&js, FormatJSON))
	var raw map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &raw))
	assert.Equal(t, "abc", raw["sessionId"])
	assert.Contains(t, raw, "exportedAt")
	states := raw["states"].([]any)
	require.Len(t, states, 1)
	assert.Equal(t, 120.0, states[0].(map[string]any)["score"])

	var mp bytes.Buffer
	require.NoError(t, r.Export(&mp, FormatMsgpack))
	var doc Document
	require.NoError(t, msgpack.Unmarshal(mp.Bytes(), &doc))
	assert.Equal(t, "abc", doc.SessionID)
	require.Len(t, doc.Inputs, 1)
	assert.Equal(t, "left", doc.Inputs[0].Code)

	assert.ErrorIs(t, r.Export(&mp, Format("xml")), ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	f, err = ParseFormat("msgpack")
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, f)
	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
