// Package asset resolves sanitized media identifiers against the fixed set
// of search directories and mints collision-free names for new artifacts.
package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/errs"
)

// Store knows where assets live. Uploads holds original user files,
// Outputs holds artifacts produced by earlier edits. Lookup order is
// uploads first, then outputs.
type Store struct {
	Uploads string
	Outputs string
}

// CheckName rejects identifiers that could escape the search directories.
// An identifier is a bare filename; separators and traversal are refused
// before any filesystem call.
func CheckName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errs.Wrap(errs.ErrValidation, "asset", "check", "empty asset name", nil)
	}
	if strings.ContainsAny(trimmed, `/\`) || strings.Contains(trimmed, "..") {
		return errs.Wrap(errs.ErrValidation, "asset", "check",
			fmt.Sprintf("asset name %q must not contain path separators or traversal", name), nil)
	}
	if filepath.Base(trimmed) != trimmed {
		return errs.Wrap(errs.ErrValidation, "asset", "check",
			fmt.Sprintf("asset name %q is not a bare filename", name), nil)
	}
	return nil
}

// Locate returns the absolute path of the named asset, searching uploads
// then previously produced outputs.
func (s Store) Locate(name string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	for _, dir := range []string{s.Uploads, s.Outputs} {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", errs.Wrap(errs.ErrNotFound, "asset", "locate",
		fmt.Sprintf("asset %q not found in uploads or outputs", name), nil)
}

// NewArtifactName mints a unique output filename. Uniqueness comes from a
// UTC timestamp plus a random suffix, never from the source name alone, so
// concurrent requests over the same asset cannot collide.
func NewArtifactName(prefix, ext string) string {
	ts := time.Now().UTC().Format("20060102-150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s_%s_%s%s", prefix, ts, suffix, ext)
}

// OutputPath joins a freshly minted artifact name into the outputs area.
func (s Store) OutputPath(prefix, ext string) string {
	return filepath.Join(s.Outputs, NewArtifactName(prefix, ext))
}
