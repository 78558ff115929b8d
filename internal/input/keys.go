// Package input turns terminal bytes, scripted sequences and autopilot output
// into one key state per frame.
package input

import (
	"fmt"
	"strings"
	"time"
)

// Key is one of the fixed gameplay controls.
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyFire
	numKeys
)

var keyNames = [numKeys]string{"left", "right", "up", "down", "fire"}

// String returns the lower-case control name.
func (k Key) String() string {
	if k >= numKeys {
		return fmt.Sprintf("key(%d)", uint8(k))
	}
	return keyNames[k]
}

// ParseKey maps a control name to a Key. "space" and "shoot" are accepted for fire.
func ParseKey(name string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return KeyLeft, nil
	case "right":
		return KeyRight, nil
	case "up", "thrust":
		return KeyUp, nil
	case "down", "reverse":
		return KeyDown, nil
	case "fire", "space", "shoot":
		return KeyFire, nil
	}
	return 0, fmt.Errorf("input: unknown key %q", name)
}

// KeySet is a bitmask of held controls.
type KeySet uint8

// Keys builds a KeySet from the given controls.
func Keys(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

// Has reports whether k is held.
func (s KeySet) Has(k Key) bool { return s&(1<<k) != 0 }

// With returns s with k held.
func (s KeySet) With(k Key) KeySet { return s | 1<<k }

// Without returns s with k released.
func (s KeySet) Without(k Key) KeySet { return s &^ (1 << k) }

// Flags expands the set into named booleans for logging and export.
func (s KeySet) Flags() Flags {
	return Flags{
		Left:  s.Has(KeyLeft),
		Right: s.Has(KeyRight),
		Up:    s.Has(KeyUp),
		Down:  s.Has(KeyDown),
		Shoot: s.Has(KeyFire),
	}
}

// String lists the held controls, e.g. "left+fire".
func (s KeySet) String() string {
	var parts []string
	for k := Key(0); k < numKeys; k++ {
		if s.Has(k) {
			parts = append(parts, k.String())
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Flags is the exported boolean view of a KeySet.
type Flags struct {
	Left  bool `json:"left" msgpack:"left"`
	Right bool `json:"right" msgpack:"right"`
	Up    bool `json:"up" msgpack:"up"`
	Down  bool `json:"down" msgpack:"down"`
	Shoot bool `json:"shoot" msgpack:"shoot"`
}

// EventType is the kind of key transition.
type EventType string

const (
	EventDown  EventType = "down"
	EventUp    EventType = "up"
	EventReset EventType = "reset"
)

// Event records one live key transition and the state it produced.
type Event struct {
	At    time.Duration `json:"timestamp" msgpack:"timestamp"`
	Type  EventType     `json:"type" msgpack:"type"`
	Code  string        `json:"code" msgpack:"code"`
	State Flags         `json:"state" msgpack:"state"`
}

// Tracker holds live key state. Repeating the current state of a key is a no-op.
type Tracker struct {
	held KeySet
	sink func(Event)
}

// NewTracker creates a tracker. sink, if non-nil, receives every transition.
func NewTracker(sink func(Event)) *Tracker {
	return &Tracker{sink: sink}
}

// Press marks k held. It reports whether the state changed.
func (t *Tracker) Press(k Key, at time.Duration) bool {
	if t.held.Has(k) {
		return false
	}
	t.held = t.held.With(k)
	t.emit(Event{At: at, Type: EventDown, Code: k.String()})
	return true
}

// Release marks k released. It reports whether the state changed.
func (t *Tracker) Release(k Key, at time.Duration) bool {
	if !t.held.Has(k) {
		return false
	}
	t.held = t.held.Without(k)
	t.emit(Event{At: at, Type: EventUp, Code: k.String()})
	return true
}

// Reset releases every key.
func (t *Tracker) Reset(at time.Duration) {
	t.held = 0
	t.emit(Event{At: at, Type: EventReset, Code: "all"})
}

// Held returns the live key state.
func (t *Tracker) Held() KeySet {
	return t.held
}

func (t *Tracker) emit(ev Event) {
	if t.sink == nil {
		return
	}
	ev.State = t.held.Flags()
	t.sink(ev)
}
