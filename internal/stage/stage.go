// Package stage describes single units of transcode work. A descriptor is
// produced by an orchestrator, consumed by the backend adapter, and owns
// exactly one output file.
package stage

import "github.com/clipforge/clipforge/internal/timecode"

// Kind selects the backend operation.
type Kind string

const (
	// CopySpan stream-copies [Start, End] from the input without re-encoding.
	CopySpan Kind = "copy-span"
	// EncodeSpan re-encodes [Start, End] from the input.
	EncodeSpan Kind = "encode-span"
	// SlowSpan re-encodes [Start, End] with video PTS scaled by 1/Speed and
	// audio tempo scaled by Speed.
	SlowSpan Kind = "slow-span"
	// Overlay re-encodes the whole input through the Filter video filter.
	Overlay Kind = "overlay"
	// ExtractAudio drops the video stream and writes an audio-only file.
	ExtractAudio Kind = "extract-audio"
	// ExtractAudioWAV writes mono 16 kHz PCM for the transcription service.
	ExtractAudioWAV Kind = "extract-audio-wav"
	// BurnSubtitles re-encodes the input with SubtitlePath burned in.
	BurnSubtitles Kind = "burn-subtitles"
	// Export re-encodes the input into the container named by Format.
	Export Kind = "export"
	// Concat re-encodes the files listed in the ManifestPath manifest into
	// one artifact. Input is unused.
	Concat Kind = "concat"
)

// Descriptor parameterizes one backend invocation. Only the fields relevant
// to Kind are set.
type Descriptor struct {
	Kind   Kind
	Input  string
	Output string

	Start timecode.Timecode
	End   timecode.Timecode

	Speed        float64
	Filter       string
	SubtitlePath string
	Format       string
	ManifestPath string
}
