// Package filtergraph builds ffmpeg filter_complex graphs as typed node lists.
//
// Graph logic is kept separate from graph syntax: builders append Node values
// with explicit input and output pads, and the textual form is only produced
// by Graph.String. Every graph is a single forward pass: a node may only
// reference raw input streams or pads produced by earlier nodes.
package filtergraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrDuplicatePad is returned when two nodes produce the same pad label.
	ErrDuplicatePad = errors.New("duplicate pad label")
	// ErrUndefinedPad is returned when a node consumes a pad that has not been produced yet.
	ErrUndefinedPad = errors.New("undefined pad label")
	// ErrMismatchedOverlayCount is returned when overlay clips and timing windows differ in length.
	ErrMismatchedOverlayCount = errors.New("mismatched overlay count")
	// ErrInvalidWindow is returned for overlay windows that start before zero or end before they start.
	ErrInvalidWindow = errors.New("invalid overlay window")
	// ErrInvalidResizeMode is returned for resize modes other than cover and contain.
	ErrInvalidResizeMode = errors.New("invalid resize mode")
	// ErrInvalidOption is returned for non-positive sizes, durations and similar inputs.
	ErrInvalidOption = errors.New("invalid graph option")
)

// StreamKind selects the video or audio stream of an input.
type StreamKind string

const (
	Video StreamKind = "v"
	Audio StreamKind = "a"
)

// Pad is a filter pad label without brackets. Raw input streams use the
// "index:kind" form, e.g. "0:v".
type Pad string

// Source returns the pad for a raw input stream.
func Source(index int, kind StreamKind) Pad {
	return Pad(strconv.Itoa(index) + ":" + string(kind))
}

// IsSource reports whether the pad refers to a raw input stream.
func (p Pad) IsSource() bool {
	_, _, ok := p.source()
	return ok
}

// InputIndex returns the input index of a source pad, or -1.
func (p Pad) InputIndex() int {
	idx, _, ok := p.source()
	if !ok {
		return -1
	}
	return idx
}

func (p Pad) source() (int, StreamKind, bool) {
	idxStr, kind, found := strings.Cut(string(p), ":")
	if !found || (kind != string(Video) && kind != string(Audio)) {
		return 0, "", false
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return 0, "", false
	}
	return idx, StreamKind(kind), true
}

// Ref renders the pad as it appears inside a graph, e.g. "[vb1]".
func (p Pad) Ref() string {
	return "[" + string(p) + "]"
}

// MapArg renders the pad as an ffmpeg -map value. Node outputs are bracketed;
// raw audio streams are optional so inputs without audio still map cleanly.
func (p Pad) MapArg() string {
	_, kind, ok := p.source()
	if !ok {
		return p.Ref()
	}
	if kind == Audio {
		return string(p) + "?"
	}
	return string(p)
}

// Arg is one filter parameter. An empty key renders the value positionally.
type Arg struct {
	Key   string
	Value string
}

// Filter is a single filter with its parameters, e.g. scale=1080:1920.
type Filter struct {
	Name string
	Args []Arg
}

// Arg returns the value of a named parameter.
func (f Filter) Arg(key string) (string, bool) {
	for _, a := range f.Args {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (f Filter) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		if a.Key == "" {
			parts[i] = a.Value
		} else {
			parts[i] = a.Key + "=" + a.Value
		}
	}
	return f.Name + "=" + strings.Join(parts, ":")
}

// Node applies a filterchain to its input pads and produces one output pad.
type Node struct {
	Inputs []Pad
	Chain  []Filter
	Output Pad
}

// Filter returns the first filter in the chain with the given name.
func (n Node) Filter(name string) (Filter, bool) {
	for _, f := range n.Chain {
		if f.Name == name {
			return f, true
		}
	}
	return Filter{}, false
}

func (n Node) String() string {
	var sb strings.Builder
	for _, in := range n.Inputs {
		sb.WriteString(in.Ref())
	}
	for i, f := range n.Chain {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.String())
	}
	sb.WriteString(n.Output.Ref())
	return sb.String()
}

// Input is a media source declared with -i. Its position in Graph.Inputs is
// the stream index used by source pads.
type Input struct {
	Path    string
	Options []string // demuxer options placed before -i
}

// Graph is an ordered node list plus the pads mapped to the output file.
type Graph struct {
	Inputs   []Input
	Nodes    []Node
	VideoOut Pad
	AudioOut Pad

	// StreamCopy marks graphs with no filtering at all; every stream is copied.
	StreamCopy bool
}

// String serializes the nodes in filter_complex syntax.
func (g *Graph) String() string {
	parts := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ";")
}

// OverlayNodes returns the nodes that composite with the overlay filter.
func (g *Graph) OverlayNodes() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if _, ok := n.Filter("overlay"); ok {
			out = append(out, n)
		}
	}
	return out
}

// Validate re-checks the wiring invariants: unique output labels, no forward
// references and source pads that point at declared inputs.
func (g *Graph) Validate() error {
	defined := make(map[Pad]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		for _, in := range n.Inputs {
			if err := g.checkRef(in, defined); err != nil {
				return fmt.Errorf("node %d: %w", i, err)
			}
		}
		if n.Output == "" || n.Output.IsSource() {
			return fmt.Errorf("node %d: %w: output %q", i, ErrInvalidOption, n.Output)
		}
		if defined[n.Output] {
			return fmt.Errorf("node %d: %w: %s", i, ErrDuplicatePad, n.Output)
		}
		defined[n.Output] = true
	}
	for _, out := range []Pad{g.VideoOut, g.AudioOut} {
		if out == "" {
			continue
		}
		if err := g.checkRef(out, defined); err != nil {
			return fmt.Errorf("output mapping: %w", err)
		}
	}
	return nil
}

func (g *Graph) checkRef(p Pad, defined map[Pad]bool) error {
	if p.IsSource() {
		if p.InputIndex() >= len(g.Inputs) {
			return fmt.Errorf("%w: %s has no matching input", ErrUndefinedPad, p)
		}
		return nil
	}
	if !defined[p] {
		return fmt.Errorf("%w: %s", ErrUndefinedPad, p)
	}
	return nil
}
