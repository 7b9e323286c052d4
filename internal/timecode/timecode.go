// Package timecode carries edit-point times as whole seconds and keeps the
// HH:MM:SS wire form at the boundary only, so the rest of the core never
// re-parses strings it already understood once.
package timecode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/errs"
)

// Timecode is a point on the media timeline, in whole seconds.
type Timecode int

// Strict wire pattern: exactly two digits per field, hours 00-23,
// minutes/seconds 00-59.
var clockRE = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d):([0-5]\d)$`)

// Parse converts a strict HH:MM:SS literal into a Timecode.
func Parse(s string) (Timecode, error) {
	m := clockRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errs.Wrap(errs.ErrValidation, "timecode", "parse", fmt.Sprintf("invalid time format %q, expected HH:MM:SS", s), nil)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	se, _ := strconv.Atoi(m[3])
	return Timecode(h*3600 + mi*60 + se), nil
}

// FromDuration floors a probed duration to whole seconds.
func FromDuration(d time.Duration) Timecode {
	if d < 0 {
		return 0
	}
	return Timecode(d / time.Second)
}

func (t Timecode) Seconds() int { return int(t) }

func (t Timecode) Duration() time.Duration { return time.Duration(t) * time.Second }

// String renders the HH:MM:SS wire form.
func (t Timecode) String() string {
	s := int(t)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// Resolve evaluates a symbolic or literal time expression against a known
// asset duration. Rules, in order: "start"/"beginning" is zero, "end" is the
// duration, "end-HH:MM:SS" is an offset back from the end floored at zero,
// anything else must be a strict HH:MM:SS literal.
func Resolve(expr string, duration Timecode) (Timecode, error) {
	e := strings.ToLower(strings.TrimSpace(expr))
	switch {
	case e == "start" || e == "beginning":
		return 0, nil
	case e == "end":
		return duration, nil
	case strings.HasPrefix(e, "end-"):
		off, err := Parse(strings.TrimPrefix(e, "end-"))
		if err != nil {
			return 0, err
		}
		if off > duration {
			return 0, nil
		}
		return duration - off, nil
	default:
		return Parse(e)
	}
}

// Span resolves a start/end expression pair against the duration. End must
// be strictly after start; an end past the duration is clamped rather than
// rejected (end overshoot is tolerated, inversion is not).
func Span(startExpr, endExpr string, duration Timecode) (Timecode, Timecode, error) {
	start, err := Resolve(startExpr, duration)
	if err != nil {
		return 0, 0, err
	}
	end, err := Resolve(endExpr, duration)
	if err != nil {
		return 0, 0, err
	}
	if end > duration {
		end = duration
	}
	if end <= start {
		return 0, 0, errs.Wrap(errs.ErrValidation, "timecode", "span",
			fmt.Sprintf("end %s must be after start %s", end, start), nil)
	}
	return start, end, nil
}
