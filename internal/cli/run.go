package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/action"
	"github.com/clipforge/clipforge/internal/asset"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/ports/adapters/ffmpeg"
	"github.com/clipforge/clipforge/internal/ports/adapters/openrouter"
	"github.com/clipforge/clipforge/internal/ports/adapters/whispercpp"
	"github.com/clipforge/clipforge/internal/timecode"
	"github.com/clipforge/clipforge/internal/usecase"
)

// editTimeout bounds one whole invocation; individual stages are bounded
// separately by the configured stage timeout.
const editTimeout = 3 * time.Hour

type app struct {
	cfg    config.Config
	logger *slog.Logger
	video  *ffmpeg.Adapter
	edits  usecase.Usecase
}

func buildApp(cmd *cobra.Command) (app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return app{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return app{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return app{}, fmt.Errorf("config: %w", err)
	}

	logger := logging.New(os.Stderr, level)
	video := ffmpeg.New(cfg.Tools.FFmpeg, cfg.Tools.FFprobe, cfg.StageTimeout())
	asr := whispercpp.New(cfg.Tools.WhisperBin, cfg.Tools.WhisperModel)

	edits := usecase.New(usecase.Deps{
		Video:        video,
		ASR:          asr,
		Store:        asset.Store{Uploads: cfg.Paths.Uploads, Outputs: cfg.Paths.Outputs},
		AudioDir:     cfg.Paths.Audio,
		SubtitleDir:  cfg.Paths.Subtitles,
		BoldFontFile: cfg.Tools.BoldFontFile,
		Logger:       logger,
	})
	return app{cfg: cfg, logger: logger, video: video, edits: edits}, nil
}

func (a app) classifier() (ports.Classifier, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is required (set it in .env)")
	}
	return openrouter.New(apiKey, a.cfg.Classifier.Model, a.cfg.Classifier.BaseURL), nil
}

func runEdit(cmd *cobra.Command, instruction string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), editTimeout)
	defer cancel()

	actionsPath, _ := cmd.Flags().GetString("actions")
	var actions []action.Action
	if actionsPath != "" {
		actions, err = readActionsFile(actionsPath)
	} else {
		actions, err = classify(ctx, a, instruction)
	}
	if err != nil {
		return err
	}

	results, err := a.edits.ExecuteBatch(ctx, actions)
	if err != nil {
		return err
	}
	return printJSON(cmd, results)
}

func runPlan(cmd *cobra.Command, instruction string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), editTimeout)
	defer cancel()

	actions, err := classify(ctx, a, instruction)
	if err != nil {
		return err
	}
	if err := action.ValidateBatch(actions); err != nil {
		return err
	}
	return printJSON(cmd, actions)
}

func runProbe(cmd *cobra.Command, name string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), editTimeout)
	defer cancel()

	store := asset.Store{Uploads: a.cfg.Paths.Uploads, Outputs: a.cfg.Paths.Outputs}
	path, err := store.Locate(name)
	if err != nil {
		return err
	}
	d, err := a.video.ProbeDuration(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), timecode.FromDuration(d).String())
	return nil
}

func classify(ctx context.Context, a app, instruction string) ([]action.Action, error) {
	cls, err := a.classifier()
	if err != nil {
		return nil, err
	}
	a.logger.Info("classifying instruction", "model", a.cfg.Classifier.Model)
	return cls.Classify(ctx, instruction)
}

func readActionsFile(path string) ([]action.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actions file: %w", err)
	}
	var actions []action.Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("parse actions file: %w", err)
	}
	return actions, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
