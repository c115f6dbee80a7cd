package captions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidSegment is returned for segments that end before they start.
var ErrInvalidSegment = errors.New("invalid segment")

// transcript mirrors the Whisper JSON output, which wraps segments in an object.
type transcript struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments decodes timed segments from JSON. Both a bare array and a
// Whisper-style {"segments": [...]} object are accepted.
func LoadSegments(r io.Reader) ([]Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}

	var segments []Segment
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &segments); err != nil {
			return nil, fmt.Errorf("parse segments: %w", err)
		}
	} else {
		var t transcript
		if err := json.Unmarshal(trimmed, &t); err != nil {
			return nil, fmt.Errorf("parse transcript: %w", err)
		}
		segments = t.Segments
	}

	for i, seg := range segments {
		if seg.End < seg.Start {
			return nil, fmt.Errorf("%w: segment %d ends at %.3f before it starts at %.3f",
				ErrInvalidSegment, i, seg.End, seg.Start)
		}
	}
	return segments, nil
}

// LoadSegmentsFile reads segments from a JSON file on disk.
func LoadSegmentsFile(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open segments: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadSegments(f)
}
