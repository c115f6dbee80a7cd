package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/kartoza/kartoza-reel-renderer/internal/style"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".config/kartoza-reel-renderer"
	// DefaultOutputDir is the default directory for rendered videos
	DefaultOutputDir = "Videos/Reels"
	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.toml"
)

// Paths configures where renders and scratch files live.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	StateDir  string `toml:"state_dir"`
}

// Engine names the external binaries.
type Engine struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Encoding holds output codec settings.
type Encoding struct {
	VideoCodec   string `toml:"video_codec"`
	Preset       string `toml:"preset"`
	CRF          int    `toml:"crf"`
	AudioCodec   string `toml:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
	SampleRate   int    `toml:"sample_rate"`
	Channels     int    `toml:"channels"`
}

// Merge configures scene and narration merges.
type Merge struct {
	Width           int     `toml:"width"`
	Height          int     `toml:"height"`
	ResizeMode      string  `toml:"resize_mode"`
	VideoVolume     float64 `toml:"video_volume"`
	VoiceoverVolume float64 `toml:"voiceover_volume"`
	// Duration of the output in seconds; 0 means the length of the narration.
	Duration float64 `toml:"duration"`
}

// Overlay configures the b-roll frame size.
type Overlay struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Music configures background music beds.
type Music struct {
	MusicVolume    float64 `toml:"music_volume"`
	VideoVolume    float64 `toml:"video_volume"`
	TargetLoudness float64 `toml:"target_loudness"`
	TruePeak       float64 `toml:"true_peak"`
	LoudnessRange  float64 `toml:"loudness_range"`
}

// Render configures orchestration.
type Render struct {
	MaxParallel int `toml:"max_parallel"`
}

// Logging configures the slog logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// History configures the job history database.
type History struct {
	Enabled        bool `toml:"enabled"`
	RetentionHours int  `toml:"retention_hours"`
}

// Notifications configures desktop notifications.
type Notifications struct {
	Desktop bool `toml:"desktop"`
}

// Config holds the application configuration
type Config struct {
	Paths         Paths          `toml:"paths"`
	Engine        Engine         `toml:"engine"`
	Encoding      Encoding       `toml:"encoding"`
	Captions      style.Settings `toml:"captions"`
	Merge         Merge          `toml:"merge"`
	Overlay       Overlay        `toml:"overlay"`
	Music         Music          `toml:"music"`
	Render        Render         `toml:"render"`
	Logging       Logging        `toml:"logging"`
	History       History        `toml:"history"`
	Notifications Notifications  `toml:"notifications"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Paths: Paths{
			OutputDir: GetDefaultOutputDir(),
			WorkDir:   filepath.Join(os.TempDir(), "kartoza-reel-renderer"),
			StateDir:  GetDefaultStateDir(),
		},
		Engine: Engine{FFmpeg: "ffmpeg", FFprobe: "ffprobe"},
		Encoding: Encoding{
			VideoCodec:   "libx264",
			Preset:       "ultrafast",
			CRF:          23,
			AudioCodec:   "aac",
			AudioBitrate: "192k",
			SampleRate:   48000,
			Channels:     2,
		},
		Captions: style.Default(),
		Merge: Merge{
			Width:           1080,
			Height:          1920,
			ResizeMode:      "cover",
			VideoVolume:     0.2,
			VoiceoverVolume: 1.0,
		},
		Overlay: Overlay{Width: 1080, Height: 1920},
		Music: Music{
			MusicVolume:    0.15,
			VideoVolume:    1.0,
			TargetLoudness: -16,
			TruePeak:       -1.5,
			LoudnessRange:  11,
		},
		Render:        Render{MaxParallel: 2},
		Logging:       Logging{Level: "info", Format: "auto"},
		History:       History{Enabled: true, RetentionHours: 24 * 7},
		Notifications: Notifications{Desktop: false},
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigDir
	}
	return filepath.Join(home, DefaultConfigDir)
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigFileName)
}

// GetDefaultOutputDir returns the default output directory path
func GetDefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultOutputDir
	}
	return filepath.Join(home, DefaultOutputDir)
}

// GetDefaultStateDir returns the directory holding the job history database
func GetDefaultStateDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); base != "" {
		return filepath.Join(base, "kartoza-reel-renderer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "state", "kartoza-reel-renderer")
	}
	return filepath.Join(home, ".local", "state", "kartoza-reel-renderer")
}

// EnsureDirectories creates the necessary directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.StateDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the sqlite database path
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// Load reads the configuration at path, or the default location when path is
// empty. A missing file yields the defaults. The boolean reports whether a
// file was read.
func Load(path string) (*Config, bool, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = GetConfigPath()
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, false, err
	}

	exists := true
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, false, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

// Save writes the configuration to path, or the default location when path is empty
func Save(cfg *Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}
	resolved, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(resolved, data, 0o644)
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Engine.FFmpeg) == "" {
		c.Engine.FFmpeg = "ffmpeg"
	}
	if strings.TrimSpace(c.Engine.FFprobe) == "" {
		c.Engine.FFprobe = "ffprobe"
	}
	c.Merge.ResizeMode = strings.ToLower(strings.TrimSpace(c.Merge.ResizeMode))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Render.MaxParallel <= 0 {
		c.Render.MaxParallel = 1
	}
	return nil
}

// Validate checks the configuration for values that would break a render.
func (c *Config) Validate() error {
	if err := c.Captions.Validate(); err != nil {
		return fmt.Errorf("captions: %w", err)
	}
	if c.Merge.Width <= 0 || c.Merge.Height <= 0 {
		return fmt.Errorf("merge: frame size must be positive, got %dx%d", c.Merge.Width, c.Merge.Height)
	}
	if c.Merge.ResizeMode != "cover" && c.Merge.ResizeMode != "contain" {
		return fmt.Errorf("merge.resize_mode: want cover or contain, got %q", c.Merge.ResizeMode)
	}
	if c.Merge.Duration < 0 {
		return fmt.Errorf("merge.duration must not be negative, got %v", c.Merge.Duration)
	}
	if c.Overlay.Width <= 0 || c.Overlay.Height <= 0 {
		return fmt.Errorf("overlay: frame size must be positive, got %dx%d", c.Overlay.Width, c.Overlay.Height)
	}
	if c.Merge.VideoVolume < 0 || c.Merge.VoiceoverVolume < 0 || c.Music.MusicVolume < 0 || c.Music.VideoVolume < 0 {
		return errors.New("volumes must not be negative")
	}
	if c.Encoding.CRF < 0 || c.Encoding.CRF > 51 {
		return fmt.Errorf("encoding.crf must be within 0-51, got %d", c.Encoding.CRF)
	}
	if c.Encoding.SampleRate <= 0 || c.Encoding.Channels <= 0 {
		return errors.New("encoding: sample_rate and channels must be positive")
	}
	switch c.Logging.Format {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.History.RetentionHours < 0 {
		return fmt.Errorf("history.retention_hours must not be negative, got %d", c.History.RetentionHours)
	}
	return nil
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
