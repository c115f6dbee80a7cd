package style

import (
	"errors"
	"strings"
	"testing"
)

func TestHexToASS(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"#FFFFFF", "&H00FFFFFF"},
		{"#000000", "&H00000000"},
		{"#FF0000", "&H000000FF"},
		{"#00FF00", "&H0000FF00"},
		{"#0000FF", "&H00FF0000"},
		{"ff8800", "&H000088FF"},
		{"#a1B2c3", "&H00C3B2A1"},
	}

	for _, tt := range tests {
		got, err := HexToASS(tt.input)
		if err != nil {
			t.Errorf("HexToASS(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("HexToASS(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHexToASS_RedByteOrder(t *testing.T) {
	got, err := HexToASS("#FF0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := strings.TrimPrefix(got, "&H")
	if body[0:2] != "00" {
		t.Errorf("expected opaque alpha, got %q", body[0:2])
	}
	if body[2:4] != "00" || body[4:6] != "00" || body[6:8] != "FF" {
		t.Errorf("expected blue=00 green=00 red=FF, got %q", body)
	}
}

func TestHexToASS_Invalid(t *testing.T) {
	for _, input := range []string{"#ZZZZZZ", "#FFF", "", "#", "FFFFFFF", "#12345G", "##FFFFFF", "#-12345"} {
		if _, err := HexToASS(input); !errors.Is(err, ErrInvalidColorFormat) {
			t.Errorf("HexToASS(%q) expected ErrInvalidColorFormat, got %v", input, err)
		}
	}
}

func TestForceStyle_Default(t *testing.T) {
	got, err := Default().ForceStyle()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "FontName=Montserrat-Bold,FontSize=10,Bold=1," +
		"PrimaryColour=&H00FFFFFF,OutlineColour=&H00000000,BackColour=&H00000000," +
		"BorderStyle=1,Outline=0.5,Shadow=0.3,Alignment=2,MarginV=50"
	if got != want {
		t.Errorf("ForceStyle() =\n%s\nwant\n%s", got, want)
	}
}

func TestForceStyle_TruncatesMargin(t *testing.T) {
	s := Default()
	s.MarginV = 72.9
	got, err := s.ForceStyle()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, "MarginV=72") {
		t.Errorf("expected truncated margin, got %q", got)
	}
}

func TestForceStyle_InvalidColor(t *testing.T) {
	s := Default()
	s.ShadowColor = "#FFF"
	if _, err := s.ForceStyle(); !errors.Is(err, ErrInvalidColorFormat) {
		t.Errorf("expected ErrInvalidColorFormat, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default settings should validate: %v", err)
	}

	s := Default()
	s.MaxWordsPerLine = 0
	if err := s.Validate(); err == nil {
		t.Error("expected error for zero max words")
	}

	s = Default()
	s.WordColor = "white"
	if err := s.Validate(); !errors.Is(err, ErrInvalidColorFormat) {
		t.Errorf("expected ErrInvalidColorFormat, got %v", err)
	}
}
