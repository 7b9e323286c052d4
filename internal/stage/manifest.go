package stage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteManifest writes the concat demuxer file list: one
// `file '<absolute-path>'` line per surviving stage output, in order.
// Entries are absolutized because the demuxer resolves relative paths
// against the manifest's own directory, not the working directory.
// The manifest is ephemeral; the caller deletes it with the stage outputs.
func WriteManifest(path string, outputs []string) error {
	var b strings.Builder
	for _, p := range outputs {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve concat entry %q: %w", p, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat manifest: %w", err)
	}
	return nil
}
