// Package style translates user-facing caption styling into the ASS
// force_style descriptor understood by ffmpeg's subtitles filter.
package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColorFormat is returned when a color is not a 6-digit hex RGB value.
var ErrInvalidColorFormat = errors.New("invalid color format")

// ASS style constants that are not user configurable.
const (
	borderStyleOutline = 1
	alignBottomCenter  = 2
)

// Settings holds caption styling. It is a plain value: build it once per
// render and pass it by value.
type Settings struct {
	WordColor       string  `toml:"word_color"`
	OutlineColor    string  `toml:"outline_color"`
	ShadowColor     string  `toml:"shadow_color"`
	FontFamily      string  `toml:"font_family"`
	FontSize        float64 `toml:"font_size"`
	OutlineWidth    float64 `toml:"outline_width"`
	ShadowOffset    float64 `toml:"shadow_offset"`
	MarginV         float64 `toml:"margin_v"` // distance from the bottom edge, truncated to whole pixels
	MaxWordsPerLine int     `toml:"max_words_per_line"`
}

// Default returns the caption styling used when nothing is configured.
func Default() Settings {
	return Settings{
		WordColor:       "#FFFFFF",
		OutlineColor:    "#000000",
		ShadowColor:     "#000000",
		FontFamily:      "Montserrat-Bold",
		FontSize:        10,
		OutlineWidth:    0.5,
		ShadowOffset:    0.3,
		MarginV:         50,
		MaxWordsPerLine: 3,
	}
}

// HexToASS converts #RRGGBB (the # is optional, case-insensitive) to the ASS
// color notation &HAABBGGRR with a fully opaque alpha byte.
func HexToASS(hex string) (string, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
	if _, err := strconv.ParseUint(digits, 16, 32); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}

	digits = strings.ToUpper(digits)
	r, g, b := digits[0:2], digits[2:4], digits[4:6]
	return "&H00" + b + g + r, nil
}

// Validate checks that every color parses and numeric options are usable.
func (s Settings) Validate() error {
	for _, c := range []string{s.WordColor, s.OutlineColor, s.ShadowColor} {
		if _, err := HexToASS(c); err != nil {
			return err
		}
	}
	if strings.TrimSpace(s.FontFamily) == "" {
		return errors.New("font family is required")
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %v", s.FontSize)
	}
	if s.MaxWordsPerLine < 1 {
		return fmt.Errorf("max words per line must be at least 1, got %d", s.MaxWordsPerLine)
	}
	return nil
}

// ForceStyle composes the force_style descriptor. Bold is always on, the
// border style is a plain outline and text is anchored bottom-centre.
func (s Settings) ForceStyle() (string, error) {
	primary, err := HexToASS(s.WordColor)
	if err != nil {
		return "", fmt.Errorf("word color: %w", err)
	}
	outline, err := HexToASS(s.OutlineColor)
	if err != nil {
		return "", fmt.Errorf("outline color: %w", err)
	}
	shadow, err := HexToASS(s.ShadowColor)
	if err != nil {
		return "", fmt.Errorf("shadow color: %w", err)
	}

	fields := []string{
		"FontName=" + s.FontFamily,
		"FontSize=" + formatNumber(s.FontSize),
		"Bold=1",
		"PrimaryColour=" + primary,
		"OutlineColour=" + outline,
		"BackColour=" + shadow,
		"BorderStyle=" + strconv.Itoa(borderStyleOutline),
		"Outline=" + formatNumber(s.OutlineWidth),
		"Shadow=" + formatNumber(s.ShadowOffset),
		"Alignment=" + strconv.Itoa(alignBottomCenter),
		"MarginV=" + strconv.Itoa(int(s.MarginV)),
	}
	return strings.Join(fields, ","), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
