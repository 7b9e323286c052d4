// Package errs defines the error taxonomy shared by the editing core.
// Every failure surfaced to a caller wraps exactly one of the sentinel
// markers below so results stay machine-checkable without string matching.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrProbe             = errors.New("probe error")
	ErrTranscode         = errors.New("transcode error")
	ErrTimeout           = errors.New("timeout")
	ErrTranscription     = errors.New("transcription error")
	ErrEmptyResult       = errors.New("empty result")
	ErrUnsupportedAction = errors.New("unsupported action")
)

// Wrap builds an error message that carries stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTranscode
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error back to the short machine-checkable kind string used
// at the response boundary. Unrecognized errors report as "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrProbe):
		return "probe"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrTranscode):
		return "transcode"
	case errors.Is(err, ErrTranscription):
		return "transcription"
	case errors.Is(err, ErrEmptyResult):
		return "empty_result"
	case errors.Is(err, ErrUnsupportedAction):
		return "unsupported_action"
	default:
		return "internal"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "editing failure"
	}
	return strings.Join(parts, ": ")
}
