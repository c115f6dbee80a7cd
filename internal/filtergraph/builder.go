package filtergraph

import "fmt"

// Builder accumulates nodes in order and enforces the wiring invariants as
// each node is added. The first violation is kept and reported by Build.
type Builder struct {
	inputs  []Input
	nodes   []Node
	defined map[Pad]bool
	err     error
}

// NewBuilder starts a graph over the given inputs.
func NewBuilder(inputs ...Input) *Builder {
	return &Builder{
		inputs:  inputs,
		defined: make(map[Pad]bool),
	}
}

// Add appends a node and returns its output pad so calls can be chained.
func (b *Builder) Add(inputs []Pad, output Pad, chain ...Filter) Pad {
	if b.err != nil {
		return output
	}
	for _, in := range inputs {
		if !b.known(in) {
			b.err = fmt.Errorf("%w: %s consumed before it is produced", ErrUndefinedPad, in)
			return output
		}
	}
	if output == "" || output.IsSource() {
		b.err = fmt.Errorf("%w: output label %q", ErrInvalidOption, output)
		return output
	}
	if b.defined[output] {
		b.err = fmt.Errorf("%w: %s", ErrDuplicatePad, output)
		return output
	}

	b.defined[output] = true
	b.nodes = append(b.nodes, Node{
		Inputs: append([]Pad(nil), inputs...),
		Chain:  append([]Filter(nil), chain...),
		Output: output,
	})
	return output
}

func (b *Builder) known(p Pad) bool {
	if p.IsSource() {
		return p.InputIndex() < len(b.inputs)
	}
	return b.defined[p]
}

// Build finalizes the graph with the pads to map into the output file.
func (b *Builder) Build(videoOut, audioOut Pad) (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, out := range []Pad{videoOut, audioOut} {
		if out != "" && !b.known(out) {
			return nil, fmt.Errorf("%w: mapped pad %s", ErrUndefinedPad, out)
		}
	}
	return &Graph{
		Inputs:   b.inputs,
		Nodes:    b.nodes,
		VideoOut: videoOut,
		AudioOut: audioOut,
	}, nil
}
