// Package overlay turns free-form overlay prompts into a structured text
// overlay and renders that structure into a drawtext filter for the
// transcode backend.
package overlay

import "github.com/clipforge/clipforge/internal/timecode"

// Defaults applied when a prompt carries no explicit signal.
const (
	DefaultDuration = 3
	DefaultColor    = "white"
	DefaultPosition = "center"
	DefaultFontSize = 64
	DefaultText     = "Text"
)

// Spec is a fully populated overlay description. Interpretation never
// fails: absent prompt signals fall back to the defaults above. When AtEnd
// is set, Start is meaningless until resolved against a probed duration.
type Spec struct {
	Text     string
	Start    int
	AtEnd    bool
	Duration int
	Color    string
	Position string
	Bold     bool
	FontSize int
}

// ResolveStart returns the absolute start second of the display window.
// The end-of-video sentinel resolves so the overlay's last frame lands on
// the end of the asset, floored at zero for clips shorter than the overlay.
func (s Spec) ResolveStart(duration timecode.Timecode) int {
	if !s.AtEnd {
		return s.Start
	}
	start := duration.Seconds() - s.Duration
	if start < 0 {
		start = 0
	}
	return start
}

// Lookup tables are package-level and never mutated after init.
var fontSizes = []struct {
	keyword string
	px      int
}{
	// "extra large" must be tried before "large".
	{"extra large", 160},
	{"huge", 128},
	{"big", 96},
	{"large", 96},
	{"medium", 48},
	{"small", 32},
}

var knownColors = map[string]struct{}{
	"white":  {},
	"black":  {},
	"red":    {},
	"green":  {},
	"blue":   {},
	"yellow": {},
	"orange": {},
	"purple": {},
	"pink":   {},
	"cyan":   {},
}

// The seven named anchors, as x/y expressions over frame and text-box
// dimensions. Margins are fixed at 40px.
var anchorCoords = map[string][2]string{
	"center":       {"(w-text_w)/2", "(h-text_h)/2"},
	"top":          {"(w-text_w)/2", "40"},
	"bottom":       {"(w-text_w)/2", "h-text_h-40"},
	"top-left":     {"40", "40"},
	"top-right":    {"w-text_w-40", "40"},
	"bottom-left":  {"40", "h-text_h-40"},
	"bottom-right": {"w-text_w-40", "h-text_h-40"},
}

// Bare left/right have no anchor of their own; they normalize to the
// lower-third compound form.
var positionAliases = map[string]string{
	"left":  "bottom-left",
	"right": "bottom-right",
}
