package overlay

import (
	"fmt"
	"strings"

	"github.com/clipforge/clipforge/internal/timecode"
)

// Filter builds the drawtext filter for this spec. The asset duration is
// required because an end-anchored start must be resolved before the
// time-gating expression can be written. boldFontFile may be empty, in
// which case a bold spec renders with the backend's default font.
func (s Spec) Filter(duration timecode.Timecode, boldFontFile string) string {
	start := s.ResolveStart(duration)
	end := start + s.Duration

	coords, ok := anchorCoords[s.Position]
	if !ok {
		coords = anchorCoords[DefaultPosition]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "drawtext=text='%s'", escapeDrawtext(s.Text))
	fmt.Fprintf(&b, ":x=%s:y=%s", coords[0], coords[1])
	fmt.Fprintf(&b, ":fontsize=%d:fontcolor=%s", s.FontSize, s.Color)
	if s.Bold && boldFontFile != "" {
		fmt.Fprintf(&b, ":fontfile='%s'", escapeDrawtext(boldFontFile))
	}
	b.WriteString(":borderw=2:bordercolor=black")
	fmt.Fprintf(&b, ":enable='between(t,%d,%d)'", start, end)
	return b.String()
}

// escapeDrawtext neutralizes the characters drawtext treats specially
// inside a filtergraph value.
func escapeDrawtext(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return s
}
