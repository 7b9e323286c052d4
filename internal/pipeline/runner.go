package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/stage"
)

// Runner executes stage plans against the transcode backend. Stages run
// strictly in declared order; each one is awaited before the next starts.
type Runner struct {
	backend ports.Transcoder
	logger  *slog.Logger
}

func NewRunner(backend ports.Transcoder, logger *slog.Logger) Runner {
	return Runner{backend: backend, logger: logging.WithComponent(logger, "pipeline")}
}

// RunSegments executes the plan and concatenates the surviving stage
// outputs into output. Every intermediate file and the concat manifest are
// removed on return, on success and failure alike; only the final artifact
// survives.
func (r Runner) RunSegments(ctx context.Context, stages []stage.Descriptor, output string) (err error) {
	intermediates := make([]string, 0, len(stages)+1)
	defer func() {
		removeAll(intermediates)
	}()

	for i, st := range stages {
		intermediates = append(intermediates, st.Output)
		r.logger.Info("running stage",
			"index", i+1,
			"total", len(stages),
			"kind", string(st.Kind),
		)
		if err := r.backend.Run(ctx, st); err != nil {
			return fmt.Errorf("stage %d/%d (%s): %w", i+1, len(stages), st.Kind, err)
		}
	}

	manifest := strings.TrimSuffix(output, ".mp4") + ".concat.txt"
	intermediates = append(intermediates, manifest)
	outputs := make([]string, 0, len(stages))
	for _, st := range stages {
		outputs = append(outputs, st.Output)
	}
	if err := stage.WriteManifest(manifest, outputs); err != nil {
		return err
	}

	r.logger.Info("concatenating stage outputs", "stages", len(stages), "output", output)
	if err := r.backend.Run(ctx, stage.Descriptor{
		Kind:         stage.Concat,
		Output:       output,
		ManifestPath: manifest,
	}); err != nil {
		return fmt.Errorf("concat: %w", err)
	}
	return nil
}

// RunSingle executes one stage with no intermediates.
func (r Runner) RunSingle(ctx context.Context, st stage.Descriptor) error {
	r.logger.Info("running stage", "kind", string(st.Kind), "output", st.Output)
	if err := r.backend.Run(ctx, st); err != nil {
		return fmt.Errorf("stage (%s): %w", st.Kind, err)
	}
	return nil
}

// removeAll deletes files best-effort. A file that is already absent is not
// an error; nothing else observes these paths after the run.
func removeAll(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		_ = os.Remove(p)
	}
}
