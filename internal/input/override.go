package input

import "time"

// Override is an optional input source layered over live keys: either manual
// state injected by an autopilot, or a scripted Sequence played against the clock.
// It only contributes while enabled.
type Override struct {
	enabled   bool
	sequence  Sequence
	manual    KeySet
	hasManual bool
	started   bool
	startTime time.Duration
	now       time.Duration
}

// NewOverride creates a disabled override.
func NewOverride() *Override {
	return &Override{}
}

// SetEnabled turns the source on or off. Enabling restarts the sequence clock
// on the next Update; disabling drops any manual state.
func (o *Override) SetEnabled(enabled bool) {
	o.enabled = enabled
	if enabled {
		o.started = false
		return
	}
	o.manual = 0
	o.hasManual = false
}

// Enabled reports whether the source contributes input.
func (o *Override) Enabled() bool {
	return o.enabled
}

// SetManual injects state directly. It wins over the sequence until the source is disabled.
// Calls while disabled are ignored.
func (o *Override) SetManual(keys KeySet) {
	if !o.enabled {
		return
	}
	o.manual = keys
	o.hasManual = true
}

// SetSequence loads a script, dropping any manual state.
func (o *Override) SetSequence(seq Sequence) {
	o.manual = 0
	o.hasManual = false
	o.sequence = NewSequence(seq...)
}

// Sequence returns the loaded script.
func (o *Override) Sequence() Sequence {
	return o.sequence
}

// Running reports whether a script is loaded and its clock has started.
func (o *Override) Running() bool {
	return len(o.sequence) > 0 && o.started
}

// Update advances the source clock. The first update after enabling fixes the start time.
func (o *Override) Update(now time.Duration) {
	if !o.enabled {
		return
	}
	if !o.started {
		o.started = true
		o.startTime = now
	}
	o.now = now
}

// Reset restarts the script from the current time without unloading it.
func (o *Override) Reset() {
	o.startTime = o.now
	o.started = true
}

// Elapsed is the script time at the last Update.
func (o *Override) Elapsed() time.Duration {
	if !o.started {
		return 0
	}
	return o.now - o.startTime
}

// Current returns the state this source asserts, and false when it has nothing to say.
func (o *Override) Current() (KeySet, bool) {
	if !o.enabled {
		return 0, false
	}
	if o.hasManual {
		return o.manual, true
	}
	if len(o.sequence) == 0 {
		return 0, false
	}
	return o.sequence.At(o.Elapsed()), true
}

// Resolve combines live keys with the override. A control is held when either source holds it.
func Resolve(live KeySet, o *Override) KeySet {
	if o == nil {
		return live
	}
	if keys, ok := o.Current(); ok {
		return live | keys
	}
	return live
}
