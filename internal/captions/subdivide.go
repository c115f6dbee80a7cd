package captions

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMaxWords is returned when the per-line word limit is below one.
var ErrInvalidMaxWords = errors.New("max words per line must be at least 1")

// Segment is a timed piece of transcribed text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Chunk is a caption entry derived from a Segment by word-count subdivision.
type Chunk struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// WordCount returns the number of whitespace separated words in the chunk.
func (c Chunk) WordCount() int {
	return len(strings.Fields(c.Text))
}

// Subdivide splits each segment into chunks of at most maxWords words. The
// chunks of one segment share its duration evenly and tile it without gaps.
// Indexes start at 1 and run across all segments in input order.
func Subdivide(segments []Segment, maxWords int) ([]Chunk, error) {
	if maxWords < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxWords, maxWords)
	}

	var chunks []Chunk
	index := 1
	for _, seg := range segments {
		texts := groupWords(strings.TrimSpace(seg.Text), maxWords)
		step := (seg.End - seg.Start) / float64(len(texts))

		for i, text := range texts {
			chunks = append(chunks, Chunk{
				Index: index,
				Start: seg.Start + float64(i)*step,
				End:   seg.Start + float64(i+1)*step,
				Text:  text,
			})
			index++
		}
	}
	return chunks, nil
}

// groupWords returns the caption lines for one segment. Text that already fits
// is kept verbatim; an empty segment still produces one (empty) line.
func groupWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return []string{text}
	}

	groups := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for i := 0; i < len(words); i += maxWords {
		end := min(i+maxWords, len(words))
		groups = append(groups, strings.Join(words[i:end], " "))
	}
	return groups
}

// Document serializes chunks as an SRT subtitle track. Entries are separated
// by a blank line; zero chunks produce an empty document.
func Document(chunks []Chunk) string {
	entries := make([]string, 0, len(chunks))
	for _, c := range chunks {
		entries = append(entries, fmt.Sprintf("%d\n%s --> %s\n%s\n",
			c.Index, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Text))
	}
	return strings.Join(entries, "\n")
}

// SRT subdivides segments and returns the resulting subtitle document.
func SRT(segments []Segment, maxWords int) (string, error) {
	chunks, err := Subdivide(segments, maxWords)
	if err != nil {
		return "", err
	}
	return Document(chunks), nil
}
