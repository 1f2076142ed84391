// Package report renders the outcome of a split run as a markdown
// manifest written next to the output files, and as HTML for the API.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/docsplit/docsplit/internal/split"
)

// ManifestName is the file the manifest is written to in the output
// directory.
const ManifestName = "manifest.md"

// Manifest builds a markdown summary of a run: one table row per range
// in plan order, followed by failure details.
func Manifest(docName string, plan *split.Plan, rep *split.Report) []byte {
	status := map[string]string{}
	outputs := map[string]string{}
	for _, out := range rep.Completed {
		status[out.Range.Name] = "written"
		outputs[out.Range.Name] = filepath.Base(out.Path)
	}
	for _, f := range rep.Failed {
		status[f.Range.Name] = "failed"
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "# Split manifest: %s\n\n", docName)
	fmt.Fprintf(&b, "- Pages: %d\n", plan.PageCount)
	fmt.Fprintf(&b, "- Ranges: %d\n", len(plan.Ranges))
	fmt.Fprintf(&b, "- Written: %d\n", len(rep.Completed))
	fmt.Fprintf(&b, "- Failed: %d\n", len(rep.Failed))
	if rep.Cancelled {
		b.WriteString("- Cancelled: yes\n")
	}
	b.WriteString("\n| # | Name | Kind | Pages | Status | Output |\n")
	b.WriteString("|---|------|------|-------|--------|--------|\n")
	for i, r := range plan.Ranges {
		st := status[r.Name]
		if st == "" {
			st = "skipped"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d-%d | %s | %s |\n",
			i+1, escapePipes(r.Name), r.Kind, r.Start+1, r.End+1, st, escapePipes(outputs[r.Name]))
	}

	if len(rep.Failed) > 0 {
		b.WriteString("\n## Failures\n\n")
		for _, f := range rep.Failed {
			fmt.Fprintf(&b, "- **%s**: %s\n", escapePipes(f.Range.Name), f.Err)
		}
	}

	return b.Bytes()
}

// Write stores the manifest in the run's output directory.
func Write(outDir string, manifest []byte) error {
	path := filepath.Join(outDir, ManifestName)
	if err := os.WriteFile(path, manifest, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// RenderHTML converts a markdown manifest to HTML.
func RenderHTML(manifest []byte) ([]byte, error) {
	var out bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert(manifest, &out); err != nil {
		return nil, fmt.Errorf("render manifest: %w", err)
	}
	return out.Bytes(), nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
