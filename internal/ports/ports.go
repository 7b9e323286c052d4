package ports

import (
	"context"
	"time"

	"github.com/clipforge/clipforge/internal/action"
	"github.com/clipforge/clipforge/internal/stage"
	"github.com/clipforge/clipforge/internal/subtitles"
)

// Transcoder is the media transcoding backend. Run executes one stage as a
// single bounded external process; no retries happen below this interface.
type Transcoder interface {
	ProbeDuration(ctx context.Context, assetPath string) (time.Duration, error)
	Run(ctx context.Context, d stage.Descriptor) error
}

// Transcriber converts an extracted audio file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, scratchDir string) (subtitles.Transcript, error)
}

// Classifier maps one natural-language instruction to editing actions.
// The core validates its output; it never trusts it.
type Classifier interface {
	Classify(ctx context.Context, instruction string) ([]action.Action, error)
}
