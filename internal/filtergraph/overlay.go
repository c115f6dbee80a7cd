package filtergraph

import "fmt"

// Window is the span of the main timeline during which an overlay is shown.
type Window struct {
	Start float64
	End   float64
}

func (w Window) validate() error {
	if !finite(w.Start, w.End) || w.Start < 0 || w.End < w.Start {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidWindow, w.Start, w.End)
	}
	return nil
}

// Overlay composites b-roll clips over the base video. Clip i (input i+1) is
// fitted to the frame, shifted to start at its window and overlaid only while
// the clock is inside that window. Overlays chain in input order, so a later
// clip is drawn above an earlier one where windows overlap. Overlaps are not
// rejected. Audio comes from the base video unchanged.
func Overlay(base string, clips []string, windows []Window, frame Size) (*Graph, error) {
	if len(clips) != len(windows) {
		return nil, fmt.Errorf("%w: %d clips, %d windows", ErrMismatchedOverlayCount, len(clips), len(windows))
	}
	if err := frame.validate(); err != nil {
		return nil, err
	}
	for i, w := range windows {
		if err := w.validate(); err != nil {
			return nil, fmt.Errorf("clip %d: %w", i+1, err)
		}
	}

	inputs := make([]Input, 0, len(clips)+1)
	inputs = append(inputs, Input{Path: base})
	for _, c := range clips {
		inputs = append(inputs, Input{Path: c})
	}
	b := NewBuilder(inputs...)

	fitted := make([]Pad, len(clips))
	for i, w := range windows {
		fitted[i] = b.Add([]Pad{Source(i+1, Video)}, Pad(fmt.Sprintf("vb%d", i+1)),
			scaleFilter(frame, "increase"), cropFilter(frame), shiftPTS(w.Start))
	}

	current := Source(0, Video)
	for i, w := range windows {
		current = b.Add([]Pad{current, fitted[i]}, Pad(fmt.Sprintf("ov%d", i+1)),
			Filter{Name: "overlay", Args: []Arg{enableBetween(w.Start, w.End)}})
	}

	return b.Build(current, Source(0, Audio))
}
