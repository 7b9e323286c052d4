package pipeline

import (
	"errors"
	"testing"

	"github.com/clipforge/clipforge/internal/errs"
	"github.com/clipforge/clipforge/internal/stage"
	"github.com/clipforge/clipforge/internal/timecode"
)

func kinds(stages []stage.Descriptor) []stage.Kind {
	out := make([]stage.Kind, 0, len(stages))
	for _, st := range stages {
		out = append(out, st.Kind)
	}
	return out
}

func TestBuildSegmentPlan_Shapes(t *testing.T) {
	d := timecode.Timecode(100)
	slow := &Middle{Speed: 0.5}

	tests := []struct {
		name   string
		start  timecode.Timecode
		end    timecode.Timecode
		middle *Middle
		want   []stage.Kind
	}{
		{"removal in the middle", 20, 40, nil, []stage.Kind{stage.CopySpan, stage.CopySpan}},
		{"removal from the start", 0, 40, nil, []stage.Kind{stage.CopySpan}},
		{"removal to the end", 60, 100, nil, []stage.Kind{stage.CopySpan}},
		{"slow motion in the middle", 20, 40, slow, []stage.Kind{stage.CopySpan, stage.SlowSpan, stage.CopySpan}},
		{"slow motion whole asset", 0, 100, slow, []stage.Kind{stage.SlowSpan}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages, err := BuildSegmentPlan("in.mp4", t.TempDir(), d, tt.start, tt.end, tt.middle)
			if err != nil {
				t.Fatalf("plan: %v", err)
			}
			got := kinds(stages)
			if len(got) != len(tt.want) {
				t.Fatalf("stage kinds %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("stage kinds %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestBuildSegmentPlan_SpanBounds(t *testing.T) {
	d := timecode.Timecode(100)
	stages, err := BuildSegmentPlan("in.mp4", t.TempDir(), d, 20, 40, &Middle{Speed: 0.5})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	head, mid, tail := stages[0], stages[1], stages[2]
	if head.Start != 0 || head.End != 20 {
		t.Fatalf("head span [%s, %s]", head.Start, head.End)
	}
	if mid.Start != 20 || mid.End != 40 || mid.Speed != 0.5 {
		t.Fatalf("middle span [%s, %s] speed %v", mid.Start, mid.End, mid.Speed)
	}
	if tail.Start != 40 || tail.End != 100 {
		t.Fatalf("tail span [%s, %s]", tail.Start, tail.End)
	}
	seen := map[string]bool{}
	for _, st := range stages {
		if st.Output == "" || seen[st.Output] {
			t.Fatalf("expected unique stage outputs, got %v", st.Output)
		}
		seen[st.Output] = true
	}
}

func TestBuildSegmentPlan_RemovingEverythingFails(t *testing.T) {
	d := timecode.Timecode(100)
	_, err := BuildSegmentPlan("in.mp4", t.TempDir(), d, 0, d, nil)
	if !errors.Is(err, errs.ErrEmptyResult) {
		t.Fatalf("expected empty result error, got %v", err)
	}
}
