// Package usecase dispatches validated edit actions onto the pipeline
// orchestrators. Every operation probes the asset duration fresh, produces
// a brand-new artifact, and never mutates an input file.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/action"
	"github.com/clipforge/clipforge/internal/asset"
	"github.com/clipforge/clipforge/internal/errs"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/overlay"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/ports/adapters/ffmpeg"
	"github.com/clipforge/clipforge/internal/stage"
	"github.com/clipforge/clipforge/internal/timecode"
)

type Deps struct {
	Video        ports.Transcoder
	ASR          ports.Transcriber
	Store        asset.Store
	AudioDir     string
	SubtitleDir  string
	BoldFontFile string
	Logger       *slog.Logger
}

type Usecase struct {
	d      Deps
	runner pipeline.Runner
	subs   pipeline.SubtitleRunner
	logger *slog.Logger
}

func New(d Deps) Usecase {
	return Usecase{
		d:      d,
		runner: pipeline.NewRunner(d.Video, d.Logger),
		subs:   pipeline.NewSubtitleRunner(d.Video, d.ASR, d.Logger),
		logger: logging.WithComponent(d.Logger, "usecase"),
	}
}

// Result reports one executed action. Artifact is the produced (or, for
// undo/redo, echoed) filename inside the outputs area.
type Result struct {
	Action   action.Kind `json:"action"`
	Artifact string      `json:"artifact"`
}

// The backend adapter owns the container list; the dispatcher checks it
// before any probe or stage runs.
var exportFormats = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, f := range ffmpeg.ExportFormats() {
		m[f] = struct{}{}
	}
	return m
}()

// ExecuteBatch validates every action tag first, then executes the batch in
// order. Validation is all-or-nothing: one unknown tag rejects the batch
// before any file is touched. Execution stops at the first failure.
func (u Usecase) ExecuteBatch(ctx context.Context, actions []action.Action) ([]Result, error) {
	if err := action.ValidateBatch(actions); err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(actions))
	for _, a := range actions {
		res, err := u.Execute(ctx, a)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (u Usecase) Execute(ctx context.Context, a action.Action) (Result, error) {
	u.logger.Info("executing action", "action", string(a.Kind), "asset", a.Filename)
	switch a.Kind {
	case action.Cut:
		return u.cut(ctx, a)
	case action.RemoveSegment:
		return u.removeSegment(ctx, a)
	case action.SlowMotion:
		return u.slowMotion(ctx, a)
	case action.AddOverlay:
		return u.addOverlay(ctx, a)
	case action.ExtractAudio:
		return u.extractAudio(ctx, a)
	case action.AddSubtitles:
		return u.addSubtitles(ctx, a)
	case action.Export:
		return u.export(ctx, a)
	case action.Undo, action.Redo:
		// History bookkeeping lives with the caller; the core only
		// confirms the target artifact still exists.
		if _, err := u.d.Store.Locate(a.Filename); err != nil {
			return Result{}, err
		}
		return Result{Action: a.Kind, Artifact: a.Filename}, nil
	default:
		return Result{}, errs.Wrap(errs.ErrUnsupportedAction, "usecase", "execute",
			fmt.Sprintf("action %q is not supported", a.Kind), nil)
	}
}

func (u Usecase) cut(ctx context.Context, a action.Action) (Result, error) {
	input, duration, err := u.locateAndProbe(ctx, a.Filename)
	if err != nil {
		return Result{}, err
	}
	start, end, err := timecode.Span(a.Start, a.End, duration)
	if err != nil {
		return Result{}, err
	}
	output := u.d.Store.OutputPath("cut", ".mp4")
	if err := u.runner.RunSingle(ctx, stage.Descriptor{
		Kind:   stage.EncodeSpan,
		Input:  input,
		Output: output,
		Start:  start,
		End:    end,
	}); err != nil {
		return Result{}, err
	}
	return Result{Action: a.Kind, Artifact: filepath.Base(output)}, nil
}

func (u Usecase) removeSegment(ctx context.Context, a action.Action) (Result, error) {
	input, duration, err := u.locateAndProbe(ctx, a.Filename)
	if err != nil {
		return Result{}, err
	}
	start, end, err := timecode.Span(a.Start, a.End, duration)
	if err != nil {
		return Result{}, err
	}
	stages, err := pipeline.BuildSegmentPlan(input, u.d.Store.Outputs, duration, start, end, nil)
	if err != nil {
		return Result{}, err
	}
	output := u.d.Store.OutputPath("removed", ".mp4")
	if err := u.runner.RunSegments(ctx, stages, output); err != nil {
		return Result{}, err
	}
	return Result{Action: a.Kind, Artifact: filepath.Base(output)}, nil
}

func (u Usecase) slowMotion(ctx context.Context, a action.Action) (Result, error) {
	// Speed is checked before any probe so a bad factor has no side effects.
	if a.Speed <= 0 || a.Speed > 1 {
		return Result{}, errs.Wrap(errs.ErrValidation, "usecase", "slow-motion",
			fmt.Sprintf("speed %v out of range (0, 1]", a.Speed), nil)
	}
	input, duration, err := u.locateAndProbe(ctx, a.Filename)
	if err != nil {
		return Result{}, err
	}
	start, end, err := timecode.Span(a.Start, a.End, duration)
	if err != nil {
		return Result{}, err
	}
	stages, err := pipeline.BuildSegmentPlan(input, u.d.Store.Outputs, duration, start, end, &pipeline.Middle{Speed: a.Speed})
	if err != nil {
		return Result{}, err
	}
	output := u.d.Store.OutputPath("slowmo", ".mp4")
	if err := u.runner.RunSegments(ctx, stages, output); err != nil {
		return Result{}, err
	}
	return Result{Action: a.Kind, Artifact: filepath.Base(output)}, nil
}

func (u Usecase) addOverlay(ctx context.Context, a action.Action) (Result, error) {
	input, duration, err := u.locateAndProbe(ctx, a.Filename)
	if err != nil {
		return Result{}, err
	}
	spec := overlay.Interpret(a.Text)
	output := u.d.Store.OutputPath("overlay", ".mp4")
	if err := u.runner.RunSingle(ctx, stage.Descriptor{
		Kind:   stage.Overlay,
		Input:  input,
		Output: output,
		Filter: spec.Filter(duration, u.d.BoldFontFile),
	}); err != nil {
		return Result{}, err
	}
	return Result{Action: a.Kind, Artifact: filepath.Base(output)}, nil
}

func (u Usecase) extractAudio(ctx context.Context, a action.Action) (Result, error) {
	input, err := u.d.Store.Locate(a.Filename)
	if err != nil {
		return Result{}, err
	}
	output := filepath.Join(u.d.AudioDir, asset.NewArtifactName("audio", ".mp3"))
	if err := u.runner.RunSingle(ctx, stage.Descriptor{
		Kind:   stage.ExtractAudio,
		Input:  input,
		Output: output,
	}); err != nil {
		return Result{}, err
	}
	return Result{Action: a.Kind, Artifact: filepath.Base(output)}, nil
}

func (u Usecase) addSubtitles(ctx context.Context, a action.Action) (Result, error) {
	input, err := u.d.Store.Locate(a.Filename)
	if err != nil {
		return Result{}, err
	}
	output := u.d.Store.OutputPath("subtitled", ".mp4")
	if err := u.subs.Run(ctx, input, u.d.AudioDir, u.d.SubtitleDir, output); err != nil {
		return Result{}, err
	}
	return Result{Action: a.Kind, Artifact: filepath.Base(output)}, nil
}

func (u Usecase) export(ctx context.Context, a action.Action) (Result, error) {
	if _, ok := exportFormats[a.Format]; !ok {
		return Result{}, errs.Wrap(errs.ErrValidation, "usecase", "export",
			fmt.Sprintf("unsupported target format %q (supported: %s)",
				a.Format, strings.Join(ffmpeg.ExportFormats(), ", ")), nil)
	}
	input, err := u.d.Store.Locate(a.Filename)
	if err != nil {
		return Result{}, err
	}
	output := u.d.Store.OutputPath("export", "."+a.Format)
	if err := u.runner.RunSingle(ctx, stage.Descriptor{
		Kind:   stage.Export,
		Input:  input,
		Output: output,
		Format: a.Format,
	}); err != nil {
		return Result{}, err
	}
	return Result{Action: a.Kind, Artifact: filepath.Base(output)}, nil
}

// locateAndProbe finds the asset and probes its duration. Duration is never
// cached: the same name can point at different content across requests.
func (u Usecase) locateAndProbe(ctx context.Context, name string) (string, timecode.Timecode, error) {
	input, err := u.d.Store.Locate(name)
	if err != nil {
		return "", 0, err
	}
	d, err := u.d.Video.ProbeDuration(ctx, input)
	if err != nil {
		return "", 0, err
	}
	return input, timecode.FromDuration(d), nil
}
