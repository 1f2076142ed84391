package split

import (
	"errors"
	"testing"
)

func checkPartition(t *testing.T, plan *Plan) {
	t.Helper()
	if err := plan.Validate(); err != nil {
		t.Fatalf("plan failed validation: %v", err)
	}
	covered := 0
	for _, r := range plan.Ranges {
		covered += r.Pages()
	}
	if covered != plan.PageCount {
		t.Fatalf("ranges cover %d pages, document has %d", covered, plan.PageCount)
	}
}

func TestAnalyze_BasicChapters(t *testing.T) {
	entries := []Entry{
		{Level: 1, Title: "Introduction", Page: 0},
		{Level: 2, Title: "Motivation", Page: 2},
		{Level: 1, Title: "Methods", Page: 10},
		{Level: 1, Title: "Results", Page: 25},
	}
	plan, err := Analyze(entries, 40, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkPartition(t, plan)

	if len(plan.Ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(plan.Ranges))
	}
	want := []Range{
		{Name: "01_Introduction", Kind: KindChapter, Start: 0, End: 9},
		{Name: "02_Methods", Kind: KindChapter, Start: 10, End: 24},
		{Name: "03_Results", Kind: KindChapter, Start: 25, End: 39},
	}
	for i, w := range want {
		got := plan.Ranges[i]
		if got.Name != w.Name || got.Kind != w.Kind || got.Start != w.Start || got.End != w.End {
			t.Errorf("range %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestAnalyze_LeadingRange(t *testing.T) {
	entries := []Entry{
		{Level: 1, Title: "Chapter One", Page: 5},
		{Level: 1, Title: "Chapter Two", Page: 12},
	}
	plan, err := Analyze(entries, 20, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkPartition(t, plan)

	if plan.Ranges[0].Kind != KindLeading {
		t.Fatalf("expected leading range first, got %s", plan.Ranges[0].Kind)
	}
	if plan.Ranges[0].Start != 0 || plan.Ranges[0].End != 4 {
		t.Errorf("leading range covers [%d,%d], want [0,4]", plan.Ranges[0].Start, plan.Ranges[0].End)
	}
	if plan.Ranges[0].Name != "00_front_matter" {
		t.Errorf("leading name = %q", plan.Ranges[0].Name)
	}
	// Exactly one leading range.
	leading := 0
	for _, r := range plan.Ranges {
		if r.Kind == KindLeading {
			leading++
		}
	}
	if leading != 1 {
		t.Errorf("expected exactly 1 leading range, got %d", leading)
	}
}

func TestAnalyze_NoLeadingWhenFirstChapterAtZero(t *testing.T) {
	entries := []Entry{{Level: 1, Title: "All of it", Page: 0}}
	plan, err := Analyze(entries, 7, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkPartition(t, plan)
	for _, r := range plan.Ranges {
		if r.Kind == KindLeading {
			t.Fatalf("unexpected leading range %+v", r)
		}
	}
}

func TestAnalyze_DegenerateSamePageKeepsLast(t *testing.T) {
	// Two chapters claiming page 10: the later title wins and the
	// merged chapter is non-empty.
	entries := []Entry{
		{Level: 1, Title: "Ch1", Page: 0},
		{Level: 1, Title: "Ch2", Page: 10},
		{Level: 1, Title: "Ch3", Page: 10},
	}
	plan, err := Analyze(entries, 20, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkPartition(t, plan)

	if len(plan.Ranges) != 2 {
		t.Fatalf("expected 2 ranges after merge, got %d", len(plan.Ranges))
	}
	if plan.Ranges[0].Title != "Ch1" || plan.Ranges[0].Start != 0 || plan.Ranges[0].End != 9 {
		t.Errorf("first range = %+v", plan.Ranges[0])
	}
	if plan.Ranges[1].Title != "Ch3" {
		t.Errorf("merged range kept %q, want Ch3", plan.Ranges[1].Title)
	}
	if plan.Ranges[1].Start != 10 || plan.Ranges[1].End != 19 {
		t.Errorf("merged range covers [%d,%d], want [10,19]", plan.Ranges[1].Start, plan.Ranges[1].End)
	}
}

func TestAnalyze_DropsBackwardJumps(t *testing.T) {
	// A bookmark pointing backwards is a mis-ordered duplicate and
	// must not define a boundary.
	entries := []Entry{
		{Level: 1, Title: "A", Page: 0},
		{Level: 1, Title: "B", Page: 15},
		{Level: 1, Title: "Stray", Page: 3},
		{Level: 1, Title: "C", Page: 22},
	}
	plan, err := Analyze(entries, 30, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkPartition(t, plan)

	var titles []string
	for _, r := range plan.Ranges {
		titles = append(titles, r.Title)
	}
	if len(titles) != 3 || titles[0] != "A" || titles[1] != "B" || titles[2] != "C" {
		t.Fatalf("chapters = %v, want [A B C]", titles)
	}
}

func TestAnalyze_IgnoresDeepEntriesAndOutOfRangePages(t *testing.T) {
	entries := []Entry{
		{Level: 2, Title: "Nested", Page: 1},
		{Level: 1, Title: "Real", Page: 0},
		{Level: 1, Title: "Phantom", Page: 99},
		{Level: 3, Title: "Deeper", Page: 4},
	}
	plan, err := Analyze(entries, 10, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkPartition(t, plan)
	if len(plan.Ranges) != 1 || plan.Ranges[0].Title != "Real" {
		t.Fatalf("ranges = %+v", plan.Ranges)
	}
}

func TestAnalyze_TrailingMarker(t *testing.T) {
	entries := []Entry{
		{Level: 1, Title: "Chapter One", Page: 0},
		{Level: 1, Title: "Appendix A", Page: 30},
	}
	plan, err := Analyze(entries, 42, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkPartition(t, plan)

	last := plan.Ranges[len(plan.Ranges)-1]
	if last.Kind != KindTrailing {
		t.Fatalf("final range kind = %s, want trailing", last.Kind)
	}
	if last.Start != 30 || last.End != 41 {
		t.Errorf("trailing covers [%d,%d], want [30,41]", last.Start, last.End)
	}
	// A non-final appendix stays an ordinary chapter.
	entries = append(entries, Entry{Level: 1, Title: "Epilogue", Page: 38})
	plan, err = Analyze(entries, 42, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if plan.Ranges[1].Kind != KindChapter {
		t.Errorf("mid-document appendix classified %s", plan.Ranges[1].Kind)
	}
}

func TestAnalyze_CustomTrailingMarkersDisable(t *testing.T) {
	entries := []Entry{
		{Level: 1, Title: "Chapter One", Page: 0},
		{Level: 1, Title: "Appendix A", Page: 30},
	}
	// Empty non-nil marker list turns trailing detection off entirely:
	// pure level-1 partition, the last chapter absorbs to document end.
	plan, err := Analyze(entries, 42, Options{TrailingMarkers: []string{}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	last := plan.Ranges[len(plan.Ranges)-1]
	if last.Kind != KindChapter {
		t.Fatalf("final range kind = %s, want chapter", last.Kind)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name      string
		entries   []Entry
		pageCount int
		want      error
	}{
		{"empty toc", nil, 10, ErrEmptyTOC},
		{"zero pages", []Entry{{Level: 1, Title: "X", Page: 0}}, 0, ErrEmptyDocument},
		{"negative pages", []Entry{{Level: 1, Title: "X", Page: 0}}, -3, ErrEmptyDocument},
		{"no top level", []Entry{{Level: 2, Title: "X", Page: 0}, {Level: 3, Title: "Y", Page: 4}}, 10, ErrNoTopLevelEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Analyze(tt.entries, tt.pageCount, Options{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if plan != nil {
				t.Fatalf("expected nil plan on error, got %+v", plan)
			}
		})
	}
}

func TestAnalyze_OrdinalWidthGrowsWithChapterCount(t *testing.T) {
	var entries []Entry
	for i := 0; i < 120; i++ {
		entries = append(entries, Entry{Level: 1, Title: "Ch", Page: i * 2})
	}
	plan, err := Analyze(entries, 240, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkPartition(t, plan)
	if got := plan.Ranges[0].Name; got != "001_Ch" {
		t.Errorf("first name = %q, want 001_Ch", got)
	}
	if got := plan.Ranges[119].Name; got != "120_Ch" {
		t.Errorf("last name = %q, want 120_Ch", got)
	}
}

func TestPlanValidate_RejectsBrokenPartitions(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
	}{
		{"empty", Plan{PageCount: 5}},
		{"starts late", Plan{PageCount: 5, Ranges: []Range{{Name: "a", Start: 1, End: 4}}}},
		{"ends early", Plan{PageCount: 5, Ranges: []Range{{Name: "a", Start: 0, End: 3}}}},
		{"gap", Plan{PageCount: 6, Ranges: []Range{
			{Name: "a", Start: 0, End: 1}, {Name: "b", Start: 3, End: 5},
		}}},
		{"overlap", Plan{PageCount: 6, Ranges: []Range{
			{Name: "a", Start: 0, End: 3}, {Name: "b", Start: 3, End: 5},
		}}},
		{"empty range", Plan{PageCount: 6, Ranges: []Range{
			{Name: "a", Start: 0, End: 5}, {Name: "b", Start: 6, End: 5},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.plan.Validate(); !errors.Is(err, ErrInvalidPartition) {
				t.Fatalf("err = %v, want ErrInvalidPartition", err)
			}
		})
	}
}
