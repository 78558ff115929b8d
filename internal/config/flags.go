package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Flags are the session-scoped switches for automation and diagnostics.
// They are fixed once a session starts.
type Flags struct {
	AutoTest bool // drive the ship from the scripted thrust sequence and record debug state
	Debug    bool // record frame states for export
	InputLog bool // log every input transition
}

// Recording reports whether the debug recorder should be on. Input logging
// writes through the recorder, so it needs one too.
func (f Flags) Recording() bool {
	return f.AutoTest || f.Debug || f.InputLog
}

// LogInput reports whether input transitions should be logged.
func (f Flags) LogInput() bool {
	return f.AutoTest || f.InputLog
}

// ParseQuery reads flags from a URL query string such as "autoTest=1&debug=true".
// Keys are case-insensitive; a key with no value counts as set.
func ParseQuery(raw string) (Flags, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Flags{}, fmt.Errorf("config: parse query: %w", err)
	}

	var f Flags
	for key, vals := range values {
		on := len(vals) == 0 || vals[len(vals)-1] == "" || truthy(vals[len(vals)-1])
		switch strings.ToLower(key) {
		case "autotest":
			f.AutoTest = on
		case "debug":
			f.Debug = on
		case "inputlog":
			f.InputLog = on
		}
	}
	return f, nil
}

// Query renders the flags back into query-string form.
func (f Flags) Query() string {
	v := url.Values{}
	if f.AutoTest {
		v.Set("autoTest", "1")
	}
	if f.Debug {
		v.Set("debug", "1")
	}
	if f.InputLog {
		v.Set("inputLog", "1")
	}
	return v.Encode()
}

// Args renders the flags as command-line flags for the play command.
func (f Flags) Args() []string {
	var args []string
	if f.AutoTest {
		args = append(args, "--autotest")
	}
	if f.Debug {
		args = append(args, "--debug")
	}
	if f.InputLog {
		args = append(args, "--input-log")
	}
	return args
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
