package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/figs-in-space/internal/input"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "json", ".json":
		return FormatJSON, nil
	case "msgpack", ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Document is the exported recording.
type Document struct {
	SessionID  string        `json:"sessionId" msgpack:"sessionId"`
	ExportedAt time.Time     `json:"exportedAt" msgpack:"exportedAt"`
	States     []FrameState  `json:"states" msgpack:"states"`
	Inputs     []input.Event `json:"inputs" msgpack:"inputs"`
}

// Document snapshots the recording.
func (r *Recorder) Document() Document {
	return Document{
		SessionID:  r.session,
		ExportedAt: time.Now().UTC(),
		States:     r.History(),
		Inputs:     r.Inputs(),
	}
}

// Export writes the recording to w.
func (r *Recorder) Export(w io.Writer, f Format) error {
	doc := r.Document()
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("debuglog: export json: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(&doc); err != nil {
			return fmt.Errorf("debuglog: export msgpack: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	r.logger.Debug("exported", "format", f, "states", len(doc.States), "inputs", len(doc.Inputs))
	return nil
}
