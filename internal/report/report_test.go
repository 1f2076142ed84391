package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docsplit/docsplit/internal/split"
)

func samplePlan() *split.Plan {
	return &split.Plan{
		PageCount: 30,
		Ranges: []split.Range{
			{Name: "00_front_matter", Kind: split.KindLeading, Title: "front_matter", Start: 0, End: 4},
			{Name: "01_Overview", Kind: split.KindChapter, Title: "Overview", Start: 5, End: 19},
			{Name: "02_Appendix", Kind: split.KindTrailing, Title: "Appendix", Start: 20, End: 29},
		},
	}
}

func TestManifest(t *testing.T) {
	plan := samplePlan()
	rep := &split.Report{
		Completed: []split.Output{
			{Range: plan.Ranges[0], Path: "/out/00_front_matter.pdf"},
			{Range: plan.Ranges[2], Path: "/out/02_Appendix.pdf"},
		},
		Failed: []split.Failure{
			{Range: plan.Ranges[1], Err: "extract pages 5-19: corrupt xref"},
		},
	}

	md := string(Manifest("book.pdf", plan, rep))

	for _, want := range []string{
		"# Split manifest: book.pdf",
		"- Pages: 30",
		"- Written: 2",
		"- Failed: 1",
		"| 1 | 00_front_matter | leading | 1-5 | written | 00_front_matter.pdf |",
		"| 2 | 01_Overview | chapter | 6-20 | failed |",
		"| 3 | 02_Appendix | trailing | 21-30 | written | 02_Appendix.pdf |",
		"## Failures",
		"corrupt xref",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("manifest missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "Cancelled") {
		t.Error("non-cancelled run should not mention cancellation")
	}
}

func TestManifest_SkippedAfterCancel(t *testing.T) {
	plan := samplePlan()
	rep := &split.Report{
		Completed: []split.Output{{Range: plan.Ranges[0], Path: "/out/00_front_matter.pdf"}},
		Cancelled: true,
	}

	md := string(Manifest("book.pdf", plan, rep))
	if !strings.Contains(md, "- Cancelled: yes") {
		t.Error("expected cancellation marker")
	}
	if !strings.Contains(md, "| 2 | 01_Overview | chapter | 6-20 | skipped |") {
		t.Errorf("expected skipped row\n%s", md)
	}
}

func TestWriteAndRenderHTML(t *testing.T) {
	dir := t.TempDir()
	plan := samplePlan()
	rep := &split.Report{
		Completed: []split.Output{
			{Range: plan.Ranges[0], Path: "a"},
			{Range: plan.Ranges[1], Path: "b"},
			{Range: plan.Ranges[2], Path: "c"},
		},
	}
	md := Manifest("book.pdf", plan, rep)
	if err := Write(dir, md); err != nil {
		t.Fatalf("Write: %v", err)
	}

	stored, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	html, err := RenderHTML(stored)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	for _, want := range []string{"<h1", "<table", "01_Overview"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("html missing %q", want)
		}
	}
}
