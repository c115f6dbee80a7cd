package filtergraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is a target frame size in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidOption, s.Width, s.Height)
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// validDuration rejects zero, negative and non-finite durations.
func validDuration(d float64) error {
	if !(d > 0) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: duration %v", ErrInvalidOption, d)
	}
	return nil
}

// ResizeMode decides how a source is fitted to the target frame.
type ResizeMode string

const (
	// Cover scales to fill the frame and center-crops the excess.
	Cover ResizeMode = "cover"
	// Contain scales to fit inside the frame and letterboxes the rest.
	Contain ResizeMode = "contain"
)

// ParseResizeMode validates a user supplied resize mode.
func ParseResizeMode(s string) (ResizeMode, error) {
	switch ResizeMode(strings.ToLower(strings.TrimSpace(s))) {
	case Cover:
		return Cover, nil
	case Contain:
		return Contain, nil
	}
	return "", fmt.Errorf("%w: %q (want cover or contain)", ErrInvalidResizeMode, s)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func positional(values ...string) []Arg {
	args := make([]Arg, len(values))
	for i, v := range values {
		args[i] = Arg{Value: v}
	}
	return args
}

func scaleFilter(size Size, aspect string) Filter {
	args := positional(strconv.Itoa(size.Width), strconv.Itoa(size.Height))
	args = append(args, Arg{Key: "force_original_aspect_ratio", Value: aspect})
	return Filter{Name: "scale", Args: args}
}

func cropFilter(size Size) Filter {
	return Filter{Name: "crop", Args: positional(strconv.Itoa(size.Width), strconv.Itoa(size.Height))}
}

func padFilter(size Size) Filter {
	return Filter{Name: "pad", Args: positional(
		strconv.Itoa(size.Width), strconv.Itoa(size.Height), "(ow-iw)/2", "(oh-ih)/2",
	)}
}

// fitFilters returns the scale+crop or scale+pad chain for the resize mode.
func fitFilters(size Size, mode ResizeMode) ([]Filter, error) {
	switch mode {
	case Cover:
		return []Filter{scaleFilter(size, "increase"), cropFilter(size)}, nil
	case Contain:
		return []Filter{scaleFilter(size, "decrease"), padFilter(size)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidResizeMode, mode)
}

func volumeFilter(v float64) Filter {
	return Filter{Name: "volume", Args: positional(num(v))}
}

func atrimFilter(duration float64) Filter {
	return Filter{Name: "atrim", Args: []Arg{{Key: "duration", Value: num(duration)}}}
}

func resetPTS(name string) Filter {
	return Filter{Name: name, Args: positional("PTS-STARTPTS")}
}

// shiftPTS restarts a clip's timeline at offset seconds on the main clock.
func shiftPTS(offset float64) Filter {
	return Filter{Name: "setpts", Args: positional("PTS-STARTPTS+" + num(offset) + "/TB")}
}

func amixFilter(inputs int, extra ...Arg) Filter {
	args := []Arg{
		{Key: "inputs", Value: strconv.Itoa(inputs)},
		{Key: "duration", Value: "first"},
	}
	return Filter{Name: "amix", Args: append(args, extra...)}
}

// enableBetween gates a filter to the closed interval [start, end] of the output clock.
func enableBetween(start, end float64) Arg {
	return Arg{Key: "enable", Value: fmt.Sprintf("'between(t,%s,%s)'", num(start), num(end))}
}
