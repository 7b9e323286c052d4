// Package whispercpp adapts the speech-to-text contract onto a local
// whisper.cpp binary.
package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/asset"
	"github.com/clipforge/clipforge/internal/errs"
	"github.com/clipforge/clipforge/internal/subtitles"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, scratchDir string) (subtitles.Transcript, error) {
	// The transcript JSON is an intermediate like any other: uniquely named
	// so concurrent transcriptions sharing the scratch area cannot collide,
	// and removed on every exit path.
	jsonPath := filepath.Join(scratchDir, asset.NewArtifactName("whisper", ".json"))
	outPrefix := strings.TrimSuffix(jsonPath, ".json")
	defer func() {
		_ = os.Remove(jsonPath)
	}()
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return subtitles.Transcript{}, errs.Wrap(errs.ErrTranscription, "whisper", "transcribe",
			strings.TrimSpace(string(b)), err)
	}

	jb, err := os.ReadFile(jsonPath)
	if err != nil {
		return subtitles.Transcript{}, errs.Wrap(errs.ErrTranscription, "whisper", "read-output", "", err)
	}

	var tr subtitles.Transcript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return subtitles.Transcript{}, errs.Wrap(errs.ErrTranscription, "whisper", "decode-output",
			fmt.Sprintf("invalid transcript JSON at %s", jsonPath), err)
	}
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
	}
	return tr, nil
}
