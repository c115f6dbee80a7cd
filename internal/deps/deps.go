package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Dependency represents an external program the renderer shells out to
type Dependency struct {
	Name        string // Command name (e.g., "ffmpeg")
	Description string // Human-readable description
	Required    bool   // If true, renders cannot run without it
}

// CheckResult contains the result of checking a dependency
type CheckResult struct {
	Dependency Dependency
	Available  bool
	Path       string // Path to the executable if found
	Version    string // First line of -version output, when known
	Error      error  // Error if check failed
}

// RequiredDeps returns the engine binaries, honouring configured overrides
func RequiredDeps(ffmpeg, ffprobe string) []Dependency {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return []Dependency{
		{Name: ffmpeg, Description: "Rendering engine", Required: true},
		{Name: ffprobe, Description: "Duration and audio stream probing", Required: true},
	}
}

// OptionalDeps lists optional dependencies that enhance functionality
var OptionalDeps = []Dependency{
	{
		Name:        "notify-send",
		Description: "Desktop notifications when renders finish",
		Required:    false,
	},
}

// RequiredFilters are the ffmpeg filters used by the render graphs
var RequiredFilters = []string{
	"subtitles", "scale", "crop", "pad", "setpts", "overlay",
	"volume", "atrim", "asetpts", "amix", "loudnorm", "aloop", "anull",
}

var lookPath = exec.LookPath

// Check verifies if a single dependency is available
func Check(dep Dependency) CheckResult {
	result := CheckResult{Dependency: dep}

	path, err := lookPath(dep.Name)
	if err != nil {
		result.Available = false
		result.Error = err
	} else {
		result.Available = true
		result.Path = path
	}

	return result
}

// CheckAll verifies all required and optional dependencies
func CheckAll(ffmpeg, ffprobe string) (required []CheckResult, optional []CheckResult) {
	for _, dep := range RequiredDeps(ffmpeg, ffprobe) {
		required = append(required, Check(dep))
	}
	for _, dep := range OptionalDeps {
		optional = append(optional, Check(dep))
	}
	return required, optional
}

// MissingRequired returns the required dependencies that are not installed
func MissingRequired(results []CheckResult) []CheckResult {
	var missing []CheckResult
	for _, r := range results {
		if r.Dependency.Required && !r.Available {
			missing = append(missing, r)
		}
	}
	return missing
}

// Version returns the first line of "<binary> -version"
func Version(ctx context.Context, binary string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, "-hide_banner", "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", binary, err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// MissingFilters lists which of the wanted filters the ffmpeg build lacks.
// The subtitles filter needs ffmpeg built with libass.
func MissingFilters(ctx context.Context, binary string, wanted []string) ([]string, error) {
	out, err := exec.CommandContext(ctx, binary, "-hide_banner", "-filters").Output()
	if err != nil {
		return nil, fmt.Errorf("%s -filters: %w", binary, err)
	}
	available := ParseFilters(out)

	var missing []string
	for _, name := range wanted {
		if !available[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// ParseFilters extracts filter names from "ffmpeg -filters" output. Filter
// rows are "<flags> <name> <in>-><out> <description>"; legend lines never
// carry the arrow column.
func ParseFilters(out []byte) map[string]bool {
	filters := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 3 && strings.Contains(fields[2], "->") {
			filters[fields[1]] = true
		}
	}
	return filters
}

// FormatMissing returns a formatted string of missing dependencies
func FormatMissing(results []CheckResult) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing dependencies:\n\n")

	for _, r := range results {
		status := "MISSING"
		if r.Dependency.Required {
			status = "REQUIRED"
		}
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", r.Dependency.Name, status))
		sb.WriteString(fmt.Sprintf("    %s\n\n", r.Dependency.Description))
	}

	return sb.String()
}
