package filtergraph

import (
	"fmt"
	"strings"
)

// ConcatList renders a concat demuxer list, one "file '<path>'" line per clip.
// Empty and single-item lists are valid.
func ConcatList(paths []string) string {
	var sb strings.Builder
	for _, p := range paths {
		escaped := strings.ReplaceAll(p, `\`, "/")
		escaped = strings.ReplaceAll(escaped, "'", `'\''`)
		fmt.Fprintf(&sb, "file '%s'\n", escaped)
	}
	return sb.String()
}

// Concat joins the clips named in a concat list without re-encoding. There
// are no filter nodes; all streams are copied as-is.
func Concat(listPath string) *Graph {
	return &Graph{
		Inputs: []Input{{
			Path:    listPath,
			Options: []string{"-f", "concat", "-safe", "0"},
		}},
		StreamCopy: true,
	}
}
