// Package action defines the editing action catalog produced by the
// natural-language classifier and the all-or-nothing validation gate the
// core applies before any file is touched.
package action

import (
	"fmt"

	"github.com/clipforge/clipforge/internal/errs"
)

// Kind tags one editing intent.
type Kind string

const (
	Cut           Kind = "cut"
	RemoveSegment Kind = "remove_segment"
	AddOverlay    Kind = "add_overlay"
	ExtractAudio  Kind = "extract_audio"
	SlowMotion    Kind = "slow_motion"
	AddSubtitles  Kind = "add_subtitles"
	Export        Kind = "export"
	Undo          Kind = "undo"
	Redo          Kind = "redo"
)

var supported = map[Kind]struct{}{
	Cut:           {},
	RemoveSegment: {},
	AddOverlay:    {},
	ExtractAudio:  {},
	SlowMotion:    {},
	AddSubtitles:  {},
	Export:        {},
	Undo:          {},
	Redo:          {},
}

// Action is one classified editing intent. Fields beyond Kind and Filename
// are populated per kind; unused ones stay zero.
type Action struct {
	Kind     Kind    `json:"action"`
	Filename string  `json:"filename"`
	Start    string  `json:"start,omitempty"`
	End      string  `json:"end,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Text     string  `json:"text,omitempty"`
	Format   string  `json:"format,omitempty"`
}

// ValidateBatch checks every action tag against the supported set before
// anything executes. A single unknown tag rejects the whole batch; partial
// execution of a mixed batch is never allowed.
func ValidateBatch(actions []Action) error {
	if len(actions) == 0 {
		return errs.Wrap(errs.ErrValidation, "action", "validate", "empty action batch", nil)
	}
	for _, a := range actions {
		if _, ok := supported[a.Kind]; !ok {
			return errs.Wrap(errs.ErrUnsupportedAction, "action", "validate",
				fmt.Sprintf("action %q is not supported", a.Kind), nil)
		}
	}
	return nil
}
