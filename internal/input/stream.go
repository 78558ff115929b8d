package input

import (
	"bufio"
	"time"
)

// DefaultHoldDuration is how long a direction or fire key counts as held after its
// last byte. Terminals send no key-up, so holds are inferred from auto-repeat.
const DefaultHoldDuration = 80 * time.Millisecond

// Frame is one poll of the terminal.
type Frame struct {
	Held      KeySet // gameplay controls considered held this frame
	Pressed   KeySet // gameplay controls whose bytes arrived this frame
	Quit      bool   // q, which the host treats as a request
	Interrupt bool   // Ctrl+C, which always leaves
	Help      bool
	Enter     bool
	Escape    bool
	Backspace bool
	Unbound   bool   // a key with no binding was pressed
	AnyKey    bool   // at least one key arrived this frame
	Typed     []rune // printable characters, for text entry
	Closed    bool   // the reader has ended
}

// Stream delivers input bytes via a channel and infers held keys from their timing.
type Stream struct {
	ch       chan byte
	closed   bool
	hold     time.Duration
	lastSeen [numKeys]time.Time
	buf      []byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:   make(chan byte, 128),
		hold: DefaultHoldDuration,
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// SetHoldDuration changes how long a key stays held after its last byte.
func (s *Stream) SetHoldDuration(d time.Duration) {
	if d > 0 {
		s.hold = d
	}
}

// Poll drains all available bytes (non-blocking) and returns the frame's input.
func (s *Stream) Poll(now time.Time) Frame {
	s.buf = s.buf[:0]
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				continue
			}
			s.buf = append(s.buf, b)
			continue
		default:
		}
		break
	}

	f := parseBytes(s.buf)
	f.Closed = s.closed
	for k := Key(0); k < numKeys; k++ {
		if f.Pressed.Has(k) {
			s.lastSeen[k] = now
		}
		if !s.lastSeen[k].IsZero() && now.Sub(s.lastSeen[k]) < s.hold {
			f.Held = f.Held.With(k)
		}
	}
	return f
}

// ReleaseAll forgets every held key, e.g. when switching screens.
func (s *Stream) ReleaseAll() {
	s.lastSeen = [numKeys]time.Time{}
}

// parseBytes decodes a batch of terminal bytes. Arrow keys arrive as ESC [ A..D.
func parseBytes(buf []byte) Frame {
	var f Frame
	f.AnyKey = len(buf) > 0

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// Check for escape sequences (arrow keys, etc.)
		if b == '\x1b' {
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				switch buf[i+2] {
				case 'A':
					f.Pressed = f.Pressed.With(KeyUp)
				case 'B':
					f.Pressed = f.Pressed.With(KeyDown)
				case 'C':
					f.Pressed = f.Pressed.With(KeyRight)
				case 'D':
					f.Pressed = f.Pressed.With(KeyLeft)
				default:
					f.Unbound = true
				}
				i += 2
				continue
			}
			f.Escape = true
			continue
		}

		applyByte(&f, b)
	}
	return f
}

// applyByte updates the frame for a single non-escape byte.
func applyByte(f *Frame, b byte) {
	if b >= 0x20 && b < 0x7f {
		f.Typed = append(f.Typed, rune(b))
	}

	switch b {
	case 'q', 'Q':
		f.Quit = true
	case 'h', 'H', '?':
		f.Help = true
	case 'a', 'A', 'j', 'J':
		f.Pressed = f.Pressed.With(KeyLeft)
	case 'd', 'D', 'l', 'L':
		f.Pressed = f.Pressed.With(KeyRight)
	case 'w', 'W', 'i', 'I':
		f.Pressed = f.Pressed.With(KeyUp)
	case 's', 'S', 'k', 'K':
		f.Pressed = f.Pressed.With(KeyDown)
	case ' ':
		f.Pressed = f.Pressed.With(KeyFire)
	case '\n', '\r':
		f.Enter = true
	case '\b', '\x7f':
		f.Backspace = true
	case 0x03:
		f.Interrupt = true
	default:
		f.Unbound = true
	}
}
