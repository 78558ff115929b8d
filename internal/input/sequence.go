package input

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSequence is returned by NamedSequence for names it does not know.
var ErrUnknownSequence = errors.New("input: unknown sequence")

// Step is the control state that takes effect At after the sequence starts.
type Step struct {
	At   time.Duration
	Keys KeySet
}

// Sequence is a time-indexed script of control states, sorted by At.
type Sequence []Step

// NewSequence returns a copy of steps sorted by time. Steps with equal times keep their order.
func NewSequence(steps ...Step) Sequence {
	seq := slices.Clone(Sequence(steps))
	slices.SortStableFunc(seq, func(a, b Step) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})
	return seq
}

// At returns the state of the last step whose time is <= elapsed.
// Before the first step the first step's state applies.
func (s Sequence) At(elapsed time.Duration) KeySet {
	if len(s) == 0 {
		return 0
	}
	// First step with At > elapsed; the one before it is current.
	i, _ := slices.BinarySearchFunc(s, elapsed, func(st Step, t time.Duration) int {
		if st.At <= t {
			return -1
		}
		return 1
	})
	if i == 0 {
		return s[0].Keys
	}
	return s[i-1].Keys
}

// Duration is the time of the last step.
func (s Sequence) Duration() time.Duration {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].At
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// SequenceNames lists the built-in scripts.
var SequenceNames = []string{
	"rotate-test",
	"thrust-test",
	"shoot-test",
	"combined-test",
	"user-thrust-test",
	"user-rotate-test",
	"user-shoot-test",
}

// NamedSequence returns one of the built-in scripts used by automated runs.
func NamedSequence(name string) (Sequence, error) {
	switch name {
	case "rotate-test":
		return NewSequence(
			Step{ms(0), 0},
			Step{ms(500), Keys(KeyLeft)},
			Step{ms(1000), 0},
			Step{ms(1500), Keys(KeyRight)},
			Step{ms(2000), 0},
			Step{ms(2500), Keys(KeyLeft)},
			Step{ms(2750), Keys(KeyLeft, KeyRight)},
			Step{ms(3000), 0},
		), nil
	case "thrust-test":
		return NewSequence(
			Step{ms(0), 0},
			Step{ms(500), Keys(KeyUp)},
			Step{ms(2000), 0},
			Step{ms(2500), Keys(KeyUp)},
			Step{ms(3000), Keys(KeyUp, KeyDown)},
			Step{ms(3500), 0},
		), nil
	case "shoot-test":
		return NewSequence(
			Step{ms(0), 0},
			Step{ms(500), Keys(KeyFire)},
			Step{ms(600), Keys(KeyFire)},
			Step{ms(900), Keys(KeyFire)},
			Step{ms(1200), 0},
			Step{ms(1500), Keys(KeyFire)},
			Step{ms(1700), 0},
		), nil
	case "combined-test":
		return NewSequence(
			Step{ms(0), 0},
			Step{ms(500), Keys(KeyLeft)},
			Step{ms(1000), Keys(KeyLeft, KeyUp)},
			Step{ms(1500), Keys(KeyUp)},
			Step{ms(2000), Keys(KeyUp, KeyFire)},
			Step{ms(2500), Keys(KeyRight, KeyFire)},
			Step{ms(3000), 0},
		), nil
	case "user-thrust-test":
		return NewSequence(
			Step{ms(0), Keys(KeyUp)},
			Step{ms(5000), Keys(KeyDown)},
			Step{ms(10000), Keys(KeyUp)},
			Step{ms(15000), 0},
		), nil
	case "user-rotate-test":
		return NewSequence(
			Step{ms(0), Keys(KeyLeft)},
			Step{ms(5000), Keys(KeyRight)},
			Step{ms(10000), Keys(KeyLeft)},
			Step{ms(15000), 0},
		), nil
	case "user-shoot-test":
		steps := make([]Step, 0, 100)
		for i := 0; i < 50; i++ {
			steps = append(steps,
				Step{ms(i * 100), Keys(KeyFire)},
				Step{ms(i*100 + 50), 0},
			)
		}
		return NewSequence(steps...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSequence, name)
}

// sequenceFile is the YAML shape of a scripted sequence:
//
//	steps:
//	  - at: 0s
//	    keys: [up]
//	  - at: 1500ms
//	    keys: [left, fire]
type sequenceFile struct {
	Steps []struct {
		At   time.Duration `yaml:"at"`
		Keys []string      `yaml:"keys"`
	} `yaml:"steps"`
}

// LoadSequence decodes a YAML sequence script.
func LoadSequence(r io.Reader) (Sequence, error) {
	var f sequenceFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("input: decode sequence: %w", err)
	}

	steps := make([]Step, 0, len(f.Steps))
	for i, st := range f.Steps {
		if st.At < 0 {
			return nil, fmt.Errorf("input: step %d: negative time %v", i, st.At)
		}
		var keys KeySet
		for _, name := range st.Keys {
			k, err := ParseKey(name)
			if err != nil {
				return nil, fmt.Errorf("input: step %d: %w", i, err)
			}
			keys = keys.With(k)
		}
		steps = append(steps, Step{At: st.At, Keys: keys})
	}
	return NewSequence(steps...), nil
}
