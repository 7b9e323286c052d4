// Package subtitles renders speech-to-text transcripts into the SRT timed
// text consumed by the burn-in stage. Rendering is pure; file placement
// belongs to the orchestrator.
package subtitles

import (
	"fmt"
	"strings"
	"time"
)

// Transcript mirrors the JSON emitted by the transcription service.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// RenderSRT produces a complete SRT document: sequence numbers, comma
// millisecond timestamps, one cue per non-empty transcript segment.
func RenderSRT(tr Transcript) string {
	var b strings.Builder
	n := 0
	for _, s := range tr.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", n, srtTime(dur(s.Start)), srtTime(dur(s.End)), text)
	}
	return b.String()
}

func srtTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	ms := int(d / time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
