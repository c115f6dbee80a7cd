package engine

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DryRunner prints what would be executed instead of running ffmpeg. It also
// records every invocation, which makes it usable as a test double.
type DryRunner struct {
	Binary string
	Out    io.Writer

	mu          sync.Mutex
	invocations []Invocation
}

// Run writes the command line and a table of the graph nodes.
func (d *DryRunner) Run(ctx context.Context, inv Invocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if inv.Graph == nil {
		return fmt.Errorf("engine: invocation for %s has no graph", inv.Output)
	}

	d.mu.Lock()
	d.invocations = append(d.invocations, inv)
	d.mu.Unlock()

	if d.Out == nil {
		return nil
	}
	binary := d.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	var sb strings.Builder
	sb.WriteString(CommandLine(binary, inv.Args()))
	sb.WriteByte('\n')
	if len(inv.Graph.Nodes) > 0 {
		sb.WriteString(nodeTable(inv))
		sb.WriteByte('\n')
	}

	// Parallel scene merges share one writer.
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := io.WriteString(d.Out, sb.String())
	return err
}

// Invocations returns a copy of everything run so far.
func (d *DryRunner) Invocations() []Invocation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Invocation(nil), d.invocations...)
}

// CommandLine renders a shell-pasteable command.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(binary))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`;&|<>()[]{}*?!#~=") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func nodeTable(inv Invocation) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Inputs", "Filters", "Output"})

	for i, n := range inv.Graph.Nodes {
		inputs := make([]string, len(n.Inputs))
		for j, in := range n.Inputs {
			inputs[j] = in.Ref()
		}
		filters := make([]string, len(n.Chain))
		for j, f := range n.Chain {
			filters[j] = f.String()
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			strings.Join(inputs, " "),
			strings.Join(filters, "\n"),
			n.Output.Ref(),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
