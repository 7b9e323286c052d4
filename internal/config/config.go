// Package config loads the clipforge configuration: defaults first, then
// an optional TOML file merged over them. Validation is a separate gate so
// the CLI can report every problem before any work starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/clipforge/clipforge/internal/ports/adapters/openrouter"
)

type Config struct {
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	Limits     Limits     `toml:"limits"`
	Classifier Classifier `toml:"classifier"`
}

// Paths are the four collaborator-managed filesystem areas the core is
// given: original uploads, produced artifacts, and the two scratch areas.
type Paths struct {
	Uploads   string `toml:"uploads"`
	Outputs   string `toml:"outputs"`
	Audio     string `toml:"audio"`
	Subtitles string `toml:"subtitles"`
}

type Tools struct {
	FFmpeg       string `toml:"ffmpeg"`
	FFprobe      string `toml:"ffprobe"`
	WhisperBin   string `toml:"whisper_bin"`
	WhisperModel string `toml:"whisper_model"`
	BoldFontFile string `toml:"bold_font_file"`
}

type Limits struct {
	StageTimeoutSeconds int `toml:"stage_timeout_seconds"`
}

type Classifier struct {
	Model        string   `toml:"model"`
	BaseURL      string   `toml:"base_url"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

func Default() Config {
	return Config{
		Paths: Paths{
			Uploads:   "data/uploads",
			Outputs:   "data/outputs",
			Audio:     "data/audio",
			Subtitles: "data/subtitles",
		},
		Tools: Tools{
			FFmpeg:       "ffmpeg",
			FFprobe:      "ffprobe",
			WhisperBin:   "whisper",
			WhisperModel: "models/ggml-base.bin",
		},
		Limits: Limits{
			StageTimeoutSeconds: 600,
		},
		Classifier: Classifier{
			BaseURL: "https://openrouter.ai",
		},
	}
}

// Load returns the defaults merged with the TOML file at path. An empty
// path or a missing file keeps the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Paths.Uploads == "" || c.Paths.Outputs == "" {
		return errors.New("paths.uploads and paths.outputs are required")
	}
	if c.Paths.Audio == "" || c.Paths.Subtitles == "" {
		return errors.New("paths.audio and paths.subtitles are required")
	}
	if c.Limits.StageTimeoutSeconds <= 0 {
		return fmt.Errorf("limits.stage_timeout_seconds must be > 0, got %d", c.Limits.StageTimeoutSeconds)
	}
	if c.Tools.WhisperModel == "" {
		return errors.New("tools.whisper_model is required")
	}
	return openrouter.ValidateBaseURL(c.Classifier.BaseURL, c.Classifier.AllowedHosts)
}

func (c Config) StageTimeout() time.Duration {
	return time.Duration(c.Limits.StageTimeoutSeconds) * time.Second
}

// EnsureDirs creates the four working areas if they do not exist yet.
func (c Config) EnsureDirs() error {
	for _, d := range []string{c.Paths.Uploads, c.Paths.Outputs, c.Paths.Audio, c.Paths.Subtitles} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}
