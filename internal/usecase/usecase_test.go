package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clipforge/clipforge/internal/action"
	"github.com/clipforge/clipforge/internal/asset"
	"github.com/clipforge/clipforge/internal/errs"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/stage"
	"github.com/clipforge/clipforge/internal/subtitles"
)

type fakeBackend struct {
	duration time.Duration
	probes   int
	runs     []stage.Descriptor
}

func (f *fakeBackend) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	f.probes++
	return f.duration, nil
}

func (f *fakeBackend) Run(_ context.Context, d stage.Descriptor) error {
	f.runs = append(f.runs, d)
	if d.Output != "" {
		if err := os.WriteFile(d.Output, []byte("x"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

type fakeASR struct {
	calls int
}

func (f *fakeASR) Transcribe(_ context.Context, _, _ string) (subtitles.Transcript, error) {
	f.calls++
	return subtitles.Transcript{Segments: []subtitles.Segment{
		{Start: 0, End: 2, Text: "hello"},
	}}, nil
}

func newTestUsecase(t *testing.T, duration time.Duration) (Usecase, *fakeBackend, *fakeASR, asset.Store) {
	t.Helper()
	store := asset.Store{Uploads: t.TempDir(), Outputs: t.TempDir()}
	backend := &fakeBackend{duration: duration}
	asr := &fakeASR{}
	u := New(Deps{
		Video:       backend,
		ASR:         asr,
		Store:       store,
		AudioDir:    t.TempDir(),
		SubtitleDir: t.TempDir(),
		Logger:      logging.New(os.Stderr, "error"),
	})
	return u, backend, asr, store
}

func addUpload(t *testing.T, store asset.Store, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(store.Uploads, name), []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCut(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	res, err := u.Execute(context.Background(), action.Action{
		Kind: action.Cut, Filename: "clip.mp4", Start: "00:00:05", End: "00:00:10",
	})
	if err != nil {
		t.Fatalf("cut: %v", err)
	}
	if len(backend.runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(backend.runs))
	}
	run := backend.runs[0]
	if run.Kind != stage.EncodeSpan || run.Start != 5 || run.End != 10 {
		t.Fatalf("unexpected stage %+v", run)
	}
	if !strings.HasPrefix(res.Artifact, "cut_") || !strings.HasSuffix(res.Artifact, ".mp4") {
		t.Fatalf("artifact = %q", res.Artifact)
	}
}

func TestCutMissingAsset(t *testing.T) {
	t.Parallel()
	u, backend, _, _ := newTestUsecase(t, 60*time.Second)

	_, err := u.Execute(context.Background(), action.Action{
		Kind: action.Cut, Filename: "absent.mp4", Start: "start", End: "end",
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if backend.probes != 0 || len(backend.runs) != 0 {
		t.Fatal("backend touched for a missing asset")
	}
}

func TestSlowMotionSpeedValidatedBeforeProbe(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	for _, speed := range []float64{0, -0.5, 1.5} {
		_, err := u.Execute(context.Background(), action.Action{
			Kind: action.SlowMotion, Filename: "clip.mp4",
			Start: "start", End: "end", Speed: speed,
		})
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("speed %v: err = %v, want ErrValidation", speed, err)
		}
	}
	if backend.probes != 0 || len(backend.runs) != 0 {
		t.Fatal("invalid speed reached the backend")
	}
}

func TestSlowMotionPlan(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	res, err := u.Execute(context.Background(), action.Action{
		Kind: action.SlowMotion, Filename: "clip.mp4",
		Start: "00:00:10", End: "00:00:20", Speed: 0.5,
	})
	if err != nil {
		t.Fatalf("slow motion: %v", err)
	}
	kinds := make([]stage.Kind, 0, len(backend.runs))
	for _, r := range backend.runs {
		kinds = append(kinds, r.Kind)
	}
	want := []stage.Kind{stage.CopySpan, stage.SlowSpan, stage.CopySpan, stage.Concat}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	if backend.runs[1].Speed != 0.5 {
		t.Fatalf("middle speed = %v", backend.runs[1].Speed)
	}
	if !strings.HasPrefix(res.Artifact, "slowmo_") {
		t.Fatalf("artifact = %q", res.Artifact)
	}
}

func TestRemoveWholeAsset(t *testing.T) {
	t.Parallel()
	u, _, _, store := newTestUsecase(t, 30*time.Second)
	addUpload(t, store, "clip.mp4")

	_, err := u.Execute(context.Background(), action.Action{
		Kind: action.RemoveSegment, Filename: "clip.mp4", Start: "start", End: "end",
	})
	if !errors.Is(err, errs.ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}

func TestRemoveSegmentCleansIntermediates(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	res, err := u.Execute(context.Background(), action.Action{
		Kind: action.RemoveSegment, Filename: "clip.mp4", Start: "00:00:10", End: "00:00:20",
	})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	for _, r := range backend.runs {
		if r.Kind == stage.Concat {
			continue
		}
		if _, statErr := os.Stat(r.Output); !os.IsNotExist(statErr) {
			t.Fatalf("intermediate %q survived", r.Output)
		}
	}
	if _, err := os.Stat(filepath.Join(store.Outputs, res.Artifact)); err != nil {
		t.Fatalf("final artifact missing: %v", err)
	}
}

func TestAddOverlay(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 90*time.Second)
	addUpload(t, store, "clip.mp4")

	_, err := u.Execute(context.Background(), action.Action{
		Kind: action.AddOverlay, Filename: "clip.mp4",
		Text: "Add 'Subscribe Now' at the end in red top-right bold text",
	})
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if len(backend.runs) != 1 || backend.runs[0].Kind != stage.Overlay {
		t.Fatalf("runs = %+v", backend.runs)
	}
	filter := backend.runs[0].Filter
	for _, part := range []string{"drawtext=", "Subscribe Now", "fontcolor=red", "between(t,87,90)"} {
		if !strings.Contains(filter, part) {
			t.Fatalf("filter %q missing %q", filter, part)
		}
	}
}

func TestExtractAudio(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	res, err := u.Execute(context.Background(), action.Action{
		Kind: action.ExtractAudio, Filename: "clip.mp4",
	})
	if err != nil {
		t.Fatalf("extract audio: %v", err)
	}
	if backend.probes != 0 {
		t.Fatal("extract audio should not probe duration")
	}
	if len(backend.runs) != 1 || backend.runs[0].Kind != stage.ExtractAudio {
		t.Fatalf("runs = %+v", backend.runs)
	}
	if !strings.HasSuffix(res.Artifact, ".mp3") {
		t.Fatalf("artifact = %q", res.Artifact)
	}
}

func TestAddSubtitles(t *testing.T) {
	t.Parallel()
	u, backend, asr, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	_, err := u.Execute(context.Background(), action.Action{
		Kind: action.AddSubtitles, Filename: "clip.mp4",
	})
	if err != nil {
		t.Fatalf("subtitles: %v", err)
	}
	if asr.calls != 1 {
		t.Fatalf("transcriber calls = %d", asr.calls)
	}
	if len(backend.runs) != 2 ||
		backend.runs[0].Kind != stage.ExtractAudioWAV ||
		backend.runs[1].Kind != stage.BurnSubtitles {
		t.Fatalf("runs = %+v", backend.runs)
	}
}

func TestExport(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	_, err := u.Execute(context.Background(), action.Action{
		Kind: action.Export, Filename: "clip.mp4", Format: "flv",
	})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("flv: err = %v, want ErrValidation", err)
	}
	if len(backend.runs) != 0 {
		t.Fatal("invalid format reached the backend")
	}

	res, err := u.Execute(context.Background(), action.Action{
		Kind: action.Export, Filename: "clip.mp4", Format: "webm",
	})
	if err != nil {
		t.Fatalf("webm: %v", err)
	}
	if backend.runs[0].Format != "webm" || !strings.HasSuffix(res.Artifact, ".webm") {
		t.Fatalf("run = %+v, artifact = %q", backend.runs[0], res.Artifact)
	}
}

func TestUndoEchoesExistingArtifact(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	name := "cut_20260101-000000_abcd1234.mp4"
	if err := os.WriteFile(filepath.Join(store.Outputs, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := u.Execute(context.Background(), action.Action{Kind: action.Undo, Filename: name})
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if res.Artifact != name {
		t.Fatalf("artifact = %q, want %q", res.Artifact, name)
	}
	if len(backend.runs) != 0 {
		t.Fatal("undo ran a transcode stage")
	}

	_, err = u.Execute(context.Background(), action.Action{Kind: action.Redo, Filename: "gone.mp4"})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("redo missing: err = %v, want ErrNotFound", err)
	}
}

func TestExecuteBatchGate(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	_, err := u.ExecuteBatch(context.Background(), []action.Action{
		{Kind: action.Cut, Filename: "clip.mp4", Start: "start", End: "00:00:10"},
		{Kind: "explode", Filename: "clip.mp4"},
	})
	if !errors.Is(err, errs.ErrUnsupportedAction) {
		t.Fatalf("err = %v, want ErrUnsupportedAction", err)
	}
	if backend.probes != 0 || len(backend.runs) != 0 {
		t.Fatal("rejected batch produced side effects")
	}
}

func TestExecuteBatchRunsInOrder(t *testing.T) {
	t.Parallel()
	u, backend, _, store := newTestUsecase(t, 60*time.Second)
	addUpload(t, store, "clip.mp4")

	results, err := u.ExecuteBatch(context.Background(), []action.Action{
		{Kind: action.Cut, Filename: "clip.mp4", Start: "start", End: "00:00:10"},
		{Kind: action.ExtractAudio, Filename: "clip.mp4"},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(results) != 2 || results[0].Action != action.Cut || results[1].Action != action.ExtractAudio {
		t.Fatalf("results = %+v", results)
	}
	if backend.runs[0].Kind != stage.EncodeSpan || backend.runs[1].Kind != stage.ExtractAudio {
		t.Fatalf("runs = %+v", backend.runs)
	}
}
