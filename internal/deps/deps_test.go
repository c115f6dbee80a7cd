package deps

import (
	"errors"
	"strings"
	"testing"
)

const filtersOutput = `Filters:
  T.. = Timeline support
  .S. = Slice threading
  ..C = Command support
  A = Audio input/output
  V = Video input/output
  | = Source or sink filter
 ... abench            A->A       Benchmark part of a filtergraph.
 TSC overlay           VV->V      Overlay a video source on top of the input.
 ... subtitles         V->V       Render text subtitles onto input video using the libass library.
 ... amix              N->A       Audio mixing.
`

func TestParseFilters(t *testing.T) {
	filters := ParseFilters([]byte(filtersOutput))

	for _, name := range []string{"abench", "overlay", "subtitles", "amix"} {
		if !filters[name] {
			t.Errorf("expected filter %q", name)
		}
	}
	for _, legend := range []string{"=", "Timeline", "Audio"} {
		if filters[legend] {
			t.Errorf("legend entry %q parsed as a filter", legend)
		}
	}
}

func TestRequiredDepsOverrides(t *testing.T) {
	deps := RequiredDeps("/opt/ffmpeg/bin/ffmpeg", "")
	if deps[0].Name != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ffmpeg = %s", deps[0].Name)
	}
	if deps[1].Name != "ffprobe" {
		t.Errorf("ffprobe = %s", deps[1].Name)
	}
	for _, d := range deps {
		if !d.Required {
			t.Errorf("%s should be required", d.Name)
		}
	}
}

func TestCheckAllAndMissing(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		if name == "ffprobe" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}

	required, optional := CheckAll("", "")
	if len(required) != 2 || len(optional) != len(OptionalDeps) {
		t.Fatalf("unexpected result sizes %d/%d", len(required), len(optional))
	}
	if !required[0].Available || required[0].Path != "/usr/bin/ffmpeg" {
		t.Errorf("ffmpeg result = %+v", required[0])
	}

	missing := MissingRequired(required)
	if len(missing) != 1 || missing[0].Dependency.Name != "ffprobe" {
		t.Fatalf("missing = %+v", missing)
	}
	if out := FormatMissing(missing); !strings.Contains(out, "ffprobe (REQUIRED)") {
		t.Errorf("FormatMissing = %q", out)
	}
	if FormatMissing(nil) != "" {
		t.Error("expected empty string for no missing deps")
	}
}
