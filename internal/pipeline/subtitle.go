package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/clipforge/clipforge/internal/asset"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/stage"
	"github.com/clipforge/clipforge/internal/subtitles"
)

// SubtitleRunner drives the three ordered subtitle stages: extract audio,
// transcribe, burn in. Each stage depends on the previous one's output;
// a failure aborts the rest and reports the failing stage.
type SubtitleRunner struct {
	backend ports.Transcoder
	asr     ports.Transcriber
	logger  *slog.Logger
}

func NewSubtitleRunner(backend ports.Transcoder, asr ports.Transcriber, logger *slog.Logger) SubtitleRunner {
	return SubtitleRunner{backend: backend, asr: asr, logger: logging.WithComponent(logger, "subtitles")}
}

// Run produces output from input with a burned-in subtitle track. The
// intermediate audio and subtitle files live in the given scratch areas and
// are removed on every exit path.
func (s SubtitleRunner) Run(ctx context.Context, input, audioDir, subtitleDir, output string) (err error) {
	wavPath := filepath.Join(audioDir, asset.NewArtifactName("speech", ".wav"))
	srtPath := filepath.Join(subtitleDir, asset.NewArtifactName("track", ".srt"))
	defer func() {
		removeAll([]string{wavPath, srtPath})
	}()

	s.logger.Info("extracting audio", "input", input)
	if err := s.backend.Run(ctx, stage.Descriptor{
		Kind:   stage.ExtractAudioWAV,
		Input:  input,
		Output: wavPath,
	}); err != nil {
		return fmt.Errorf("audio extraction: %w", err)
	}

	s.logger.Info("transcribing audio", "audio", wavPath)
	tr, err := s.asr.Transcribe(ctx, wavPath, audioDir)
	if err != nil {
		return fmt.Errorf("transcription: %w", err)
	}
	if err := os.WriteFile(srtPath, []byte(subtitles.RenderSRT(tr)), 0o644); err != nil {
		return fmt.Errorf("transcription: write subtitle track: %w", err)
	}

	s.logger.Info("burning subtitles", "track", srtPath, "output", output)
	if err := s.backend.Run(ctx, stage.Descriptor{
		Kind:         stage.BurnSubtitles,
		Input:        input,
		Output:       output,
		SubtitlePath: srtPath,
	}); err != nil {
		return fmt.Errorf("subtitle burn: %w", err)
	}
	return nil
}
