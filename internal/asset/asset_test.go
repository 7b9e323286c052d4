package asset

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/clipforge/clipforge/internal/errs"
)

func TestCheckName_RejectsTraversal(t *testing.T) {
	tests := []string{"", "  ", "../etc/passwd", "a/b.mp4", `a\b.mp4`, "..", "video..mp4"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			if err := CheckName(in); !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("expected validation error for %q, got %v", in, err)
			}
		})
	}
	if err := CheckName("clip_001.mp4"); err != nil {
		t.Fatalf("expected plain name to pass, got %v", err)
	}
}

func TestLocate_SearchOrder(t *testing.T) {
	tmp := t.TempDir()
	uploads := filepath.Join(tmp, "uploads")
	outputs := filepath.Join(tmp, "outputs")
	for _, d := range []string{uploads, outputs} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	// Same name in both areas: the original upload wins.
	for _, d := range []string{uploads, outputs} {
		if err := os.WriteFile(filepath.Join(d, "both.mp4"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(outputs, "produced.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Store{Uploads: uploads, Outputs: outputs}

	p, err := s.Locate("both.mp4")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if !strings.HasPrefix(p, uploads) {
		t.Fatalf("expected uploads to win, got %s", p)
	}

	p, err = s.Locate("produced.mp4")
	if err != nil {
		t.Fatalf("locate produced: %v", err)
	}
	if !strings.HasPrefix(p, outputs) {
		t.Fatalf("expected outputs fallback, got %s", p)
	}

	if _, err := s.Locate("missing.mp4"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewArtifactName_Shape(t *testing.T) {
	re := regexp.MustCompile(`^cut_\d{8}-\d{6}_[0-9a-f]{8}\.mp4$`)
	a := NewArtifactName("cut", ".mp4")
	b := NewArtifactName("cut", "mp4")
	if !re.MatchString(a) {
		t.Fatalf("unexpected artifact name: %s", a)
	}
	if !re.MatchString(b) {
		t.Fatalf("expected extension dot to be added: %s", b)
	}
	if a == b {
		t.Fatalf("expected unique names, got duplicate %s", a)
	}
}
