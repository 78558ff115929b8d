// Package debuglog records a bounded history of frame states and input events
// for a session, and exports it for offline inspection.
package debuglog

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/figs-in-space/internal/input"
)

// ErrUnknownFormat is returned by Export for formats it cannot write.
var ErrUnknownFormat = errors.New("debuglog: unknown export format")

// Point is an exported position or velocity.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// FrameState is one sampled frame of a session.
type FrameState struct {
	Timestamp      time.Duration `json:"timestamp" msgpack:"timestamp"`
	PlayerPosition Point         `json:"playerPosition" msgpack:"playerPosition"`
	PlayerRotation float64       `json:"playerRotation" msgpack:"playerRotation"`
	PlayerVelocity Point         `json:"playerVelocity" msgpack:"playerVelocity"`
	Input          input.Flags   `json:"inputState" msgpack:"inputState"`
	LaserCount     int           `json:"laserCount" msgpack:"laserCount"`
	LaserPositions []Point       `json:"laserPositions,omitempty" msgpack:"laserPositions,omitempty"`
	HazardCount    int           `json:"figCount" msgpack:"figCount"`
	SaucerCount    int           `json:"saucerCount" msgpack:"saucerCount"`
	Score          int           `json:"score" msgpack:"score"`
	Lives          int           `json:"lives" msgpack:"lives"`
	Level          int           `json:"level" msgpack:"level"`
}

// Options configures a Recorder. Zero values select the defaults.
type Options struct {
	Enabled        bool
	HistorySize    int           // frame states kept, default 100
	Interval       time.Duration // minimum spacing of frame states, default 100ms
	InputSize      int           // input events kept, default 500
	MaxDuration    time.Duration // stop recording this long after the first record, 0 = never
	ConsoleLogging bool          // echo records to Logger at debug level
	Logger         *log.Logger
}

const (
	defaultHistorySize = 100
	defaultInterval    = 100 * time.Millisecond
	defaultInputSize   = 500
)

// Recorder keeps the most recent frame states and input events.
// Timestamps come from the session clock, so throttling follows game time.
type Recorder struct {
	opts    Options
	logger  *log.Logger
	enabled bool

	states  []FrameState
	inputs  []input.Event
	lastLog time.Duration
	logged  bool
	startAt time.Duration
	started bool
	session string
}

// New creates a recorder.
func New(opts Options) *Recorder {
	if opts.HistorySize <= 0 {
		opts.HistorySize = defaultHistorySize
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.InputSize <= 0 {
		opts.InputSize = defaultInputSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{
		opts:    opts,
		logger:  logger.WithPrefix("debug"),
		enabled: opts.Enabled,
	}
}

// SetEnabled turns recording on or off and restarts the duration window.
func (r *Recorder) SetEnabled(enabled bool) {
	r.enabled = enabled
	r.started = false
	r.logged = false
	if enabled {
		r.logger.Debug("recording enabled", "maxDuration", r.opts.MaxDuration)
	}
}

// Enabled reports whether records are being kept.
func (r *Recorder) Enabled() bool {
	return r.enabled
}

// SetConsoleLogging toggles echoing records to the logger.
func (r *Recorder) SetConsoleLogging(on bool) {
	r.opts.ConsoleLogging = on
}

// SetSession tags subsequent exports with a session id.
func (r *Recorder) SetSession(id string) {
	r.session = id
}

// LogState records a frame state, at most once per interval.
func (r *Recorder) LogState(s FrameState) {
	if !r.within(s.Timestamp) {
		return
	}
	if r.logged && s.Timestamp-r.lastLog < r.opts.Interval {
		return
	}
	r.logged = true
	r.lastLog = s.Timestamp

	r.states = append(r.states, s)
	if over := len(r.states) - r.opts.HistorySize; over > 0 {
		r.states = append(r.states[:0], r.states[over:]...)
	}

	if r.opts.ConsoleLogging {
		r.logger.Debug("frame",
			"t", s.Timestamp,
			"pos", fmt.Sprintf("(%.1f, %.1f)", s.PlayerPosition.X, s.PlayerPosition.Y),
			"rot", fmt.Sprintf("%.2f", s.PlayerRotation),
			"vel", fmt.Sprintf("(%.3f, %.3f)", s.PlayerVelocity.X, s.PlayerVelocity.Y),
			"lasers", s.LaserCount,
			"figs", s.HazardCount,
			"score", s.Score,
		)
	}
}

// LogInput records a key transition. Its signature matches input.NewTracker's sink.
func (r *Recorder) LogInput(ev input.Event) {
	if !r.within(ev.At) {
		return
	}
	r.inputs = append(r.inputs, ev)
	if over := len(r.inputs) - r.opts.InputSize; over > 0 {
		r.inputs = append(r.inputs[:0], r.inputs[over:]...)
	}
	if r.opts.ConsoleLogging {
		r.logger.Debug("input", "t", ev.At, "type", ev.Type, "code", ev.Code)
	}
}

func (r *Recorder) within(at time.Duration) bool {
	if !r.enabled {
		return false
	}
	if !r.started {
		r.started = true
		r.startAt = at
	}
	if r.opts.MaxDuration <= 0 {
		return true
	}
	return at-r.startAt <= r.opts.MaxDuration
}

// History returns a copy of the recorded frame states, oldest first.
func (r *Recorder) History() []FrameState {
	return append([]FrameState(nil), r.states...)
}

// Inputs returns a copy of the recorded input events, oldest first.
func (r *Recorder) Inputs() []input.Event {
	return append([]input.Event(nil), r.inputs...)
}

// Clear drops everything recorded so far.
func (r *Recorder) Clear() {
	r.states = nil
	r.inputs = nil
	r.logged = false
	r.logger.Debug("history cleared")
}
