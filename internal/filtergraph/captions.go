package filtergraph

import (
	"fmt"
	"strings"
)

// EscapePath prepares a file path for use as a filter parameter: backslashes
// become forward slashes and colons are escaped so the graph parser does not
// read them as parameter separators. Graph delimiters are escaped for the
// graph parser, and a quote for both the graph and the option parser.
func EscapePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	return pathEscaper.Replace(path)
}

var pathEscaper = strings.NewReplacer(
	":", `\:`,
	"'", `\\\'`,
	"[", `\[`,
	"]", `\]`,
	",", `\,`,
	";", `\;`,
)

// BurnCaptions renders a subtitle document onto the video of input 0 using
// the given force_style descriptor. Audio is passed through untouched.
func BurnCaptions(video, subtitlePath, forceStyle string) (*Graph, error) {
	if strings.TrimSpace(subtitlePath) == "" {
		return nil, fmt.Errorf("%w: empty subtitle path", ErrInvalidOption)
	}

	args := positional(EscapePath(subtitlePath))
	if forceStyle != "" {
		args = append(args, Arg{Key: "force_style", Value: "'" + forceStyle + "'"})
	}

	b := NewBuilder(Input{Path: video})
	out := b.Add([]Pad{Source(0, Video)}, "captioned", Filter{Name: "subtitles", Args: args})
	return b.Build(out, Source(0, Audio))
}
