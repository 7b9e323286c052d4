// Package ffmpeg adapts the transcode backend contract onto ffmpeg and
// ffprobe processes. Every Run invocation is one process with a bounded
// wall-clock timeout; the process is killed on expiry. Retries are the
// caller's decision, never the adapter's.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/errs"
	"github.com/clipforge/clipforge/internal/stage"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	timeout time.Duration
}

const defaultTimeout = 10 * time.Minute

func New(ffmpegPath, ffprobePath string, timeout time.Duration) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, timeout: timeout}
}

func (a *Adapter) ProbeDuration(ctx context.Context, assetPath string) (time.Duration, error) {
	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	cmd := exec.CommandContext(runCtx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		assetPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, errs.Wrap(errs.ErrProbe, "ffprobe", "duration",
			fmt.Sprintf("%s: %s", assetPath, strings.TrimSpace(string(b))), err)
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.Wrap(errs.ErrProbe, "ffprobe", "duration",
			fmt.Sprintf("unparseable duration %q", s), err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) Run(ctx context.Context, d stage.Descriptor) error {
	args, err := buildArgs(d)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return errs.Wrap(errs.ErrTimeout, "ffmpeg", string(d.Kind),
				fmt.Sprintf("stage exceeded %s and was killed", a.timeout), nil)
		}
		return errs.Wrap(errs.ErrTranscode, "ffmpeg", string(d.Kind),
			strings.TrimSpace(string(b)), err)
	}
	return nil
}

// buildArgs maps a stage descriptor to an ffmpeg argument vector. It is
// pure so each mapping is testable without spawning processes.
func buildArgs(d stage.Descriptor) ([]string, error) {
	switch d.Kind {
	case stage.CopySpan:
		return []string{
			"-y",
			"-ss", d.Start.String(),
			"-to", d.End.String(),
			"-i", d.Input,
			"-c", "copy",
			d.Output,
		}, nil

	case stage.EncodeSpan:
		args := []string{
			"-y",
			"-ss", d.Start.String(),
			"-to", d.End.String(),
			"-i", d.Input,
		}
		return append(args, encodeTail(d.Output)...), nil

	case stage.SlowSpan:
		if d.Speed <= 0 || d.Speed > 1 {
			return nil, errs.Wrap(errs.ErrValidation, "ffmpeg", "slow-span",
				fmt.Sprintf("speed %v out of range (0, 1]", d.Speed), nil)
		}
		args := []string{
			"-y",
			"-ss", d.Start.String(),
			"-to", d.End.String(),
			"-i", d.Input,
			"-filter:v", fmt.Sprintf("setpts=PTS/%s", formatSpeed(d.Speed)),
			"-filter:a", atempoChain(d.Speed),
		}
		return append(args, encodeTail(d.Output)...), nil

	case stage.Overlay:
		if d.Filter == "" {
			return nil, errs.Wrap(errs.ErrValidation, "ffmpeg", "overlay", "empty filter", nil)
		}
		args := []string{"-y", "-i", d.Input, "-vf", d.Filter}
		return append(args, encodeTail(d.Output)...), nil

	case stage.ExtractAudio:
		return []string{
			"-y",
			"-i", d.Input,
			"-vn",
			"-c:a", "libmp3lame",
			"-q:a", "2",
			d.Output,
		}, nil

	case stage.ExtractAudioWAV:
		return []string{
			"-y",
			"-i", d.Input,
			"-vn",
			"-ac", "1",
			"-ar", "16000",
			"-f", "wav",
			d.Output,
		}, nil

	case stage.BurnSubtitles:
		if d.SubtitlePath == "" {
			return nil, errs.Wrap(errs.ErrValidation, "ffmpeg", "burn-subtitles", "empty subtitle path", nil)
		}
		args := []string{
			"-y",
			"-i", d.Input,
			"-vf", "subtitles=" + escapeFilterPath(d.SubtitlePath),
		}
		return append(args, encodeTail(d.Output)...), nil

	case stage.Export:
		tail, ok := exportArgs[d.Format]
		if !ok {
			return nil, errs.Wrap(errs.ErrValidation, "ffmpeg", "export",
				fmt.Sprintf("unsupported target format %q", d.Format), nil)
		}
		args := []string{"-y", "-i", d.Input}
		args = append(args, tail...)
		return append(args, d.Output), nil

	case stage.Concat:
		if d.ManifestPath == "" {
			return nil, errs.Wrap(errs.ErrValidation, "ffmpeg", "concat", "empty manifest path", nil)
		}
		// Concatenation always re-encodes: stage outputs may carry
		// heterogeneous stream parameters, which makes raw concat unsafe.
		args := []string{
			"-y",
			"-f", "concat",
			"-safe", "0",
			"-i", d.ManifestPath,
		}
		return append(args, encodeTail(d.Output)...), nil

	default:
		return nil, errs.Wrap(errs.ErrValidation, "ffmpeg", "run",
			fmt.Sprintf("unknown stage kind %q", d.Kind), nil)
	}
}

// encodeTail is the shared re-encode profile for video-bearing outputs.
func encodeTail(output string) []string {
	return []string{
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		output,
	}
}

// Per-container codec choices for export targets.
var exportArgs = map[string][]string{
	"mp4":  {"-c:v", "libx264", "-preset", "veryfast", "-crf", "18", "-c:a", "aac", "-b:a", "192k"},
	"mov":  {"-c:v", "libx264", "-preset", "veryfast", "-crf", "18", "-c:a", "aac", "-b:a", "192k"},
	"mkv":  {"-c:v", "libx264", "-preset", "veryfast", "-crf", "18", "-c:a", "aac", "-b:a", "192k"},
	"webm": {"-c:v", "libvpx-vp9", "-crf", "30", "-b:v", "0", "-c:a", "libopus"},
	"avi":  {"-c:v", "mpeg4", "-q:v", "4", "-c:a", "libmp3lame", "-q:a", "4"},
	"gif":  {"-vf", "fps=12,scale=480:-1:flags=lanczos", "-an"},
}

// ExportFormats lists the accepted export containers.
func ExportFormats() []string {
	return []string{"avi", "gif", "mkv", "mov", "mp4", "webm"}
}

// atempoChain builds the audio tempo filter for a slow-motion factor.
// atempo only accepts [0.5, 2.0] per instance, so factors below 0.5 are
// reached by chaining.
func atempoChain(speed float64) string {
	var parts []string
	f := speed
	for f < 0.5 {
		parts = append(parts, "atempo=0.5")
		f /= 0.5
	}
	parts = append(parts, "atempo="+formatSpeed(f))
	return strings.Join(parts, ",")
}

func formatSpeed(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
