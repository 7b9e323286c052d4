// Package pipeline orchestrates multi-stage transcode jobs: it splits a
// source asset into ordered stages, runs them against the backend, and
// concatenates the survivors into a single new artifact with deterministic
// cleanup of every intermediate file.
package pipeline

import (
	"path/filepath"

	"github.com/clipforge/clipforge/internal/asset"
	"github.com/clipforge/clipforge/internal/errs"
	"github.com/clipforge/clipforge/internal/stage"
	"github.com/clipforge/clipforge/internal/timecode"
)

// Middle describes the transform applied to the target window [start, end].
// A nil Middle removes the window entirely.
type Middle struct {
	Speed float64
}

// BuildSegmentPlan splits [0, duration] around the window [start, end] into
// up to three ordered stages: a lossless head copy when start > 0, the
// middle transform (or nothing, for removal), and a lossless tail copy when
// end < duration. Stage outputs are uniquely named files under scratchDir.
// A plan with zero surviving stages is an error: the operation would delete
// the whole asset.
func BuildSegmentPlan(input, scratchDir string, duration, start, end timecode.Timecode, middle *Middle) ([]stage.Descriptor, error) {
	var stages []stage.Descriptor

	if start > 0 {
		stages = append(stages, stage.Descriptor{
			Kind:   stage.CopySpan,
			Input:  input,
			Output: filepath.Join(scratchDir, asset.NewArtifactName("seg-head", ".mp4")),
			Start:  0,
			End:    start,
		})
	}

	if middle != nil {
		stages = append(stages, stage.Descriptor{
			Kind:   stage.SlowSpan,
			Input:  input,
			Output: filepath.Join(scratchDir, asset.NewArtifactName("seg-slow", ".mp4")),
			Start:  start,
			End:    end,
			Speed:  middle.Speed,
		})
	}

	if end < duration {
		stages = append(stages, stage.Descriptor{
			Kind:   stage.CopySpan,
			Input:  input,
			Output: filepath.Join(scratchDir, asset.NewArtifactName("seg-tail", ".mp4")),
			Start:  end,
			End:    duration,
		})
	}

	if len(stages) == 0 {
		return nil, errs.Wrap(errs.ErrEmptyResult, "pipeline", "plan",
			"removing the whole asset would leave nothing to keep", nil)
	}
	return stages, nil
}
