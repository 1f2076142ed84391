// Package split turns a document's embedded table of contents into an
// ordered, non-overlapping, page-complete partition (a Plan) and executes
// that plan into one output file per range.
package split

import "fmt"

// Entry is one table-of-contents bookmark as reported by the document
// engine: nesting level (1 = top-level chapter), title, and zero-based
// target page. Entries are ordered by document appearance, which is not
// necessarily page order.
type Entry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// Kind classifies a range within a plan.
type Kind string

const (
	// KindLeading covers pages before the first top-level chapter
	// (cover, preface, the printed contents itself).
	KindLeading Kind = "leading"
	// KindChapter derives 1:1 from a top-level TOC entry.
	KindChapter Kind = "chapter"
	// KindTrailing is a final back-matter section (appendix, index)
	// recognized by title marker.
	KindTrailing Kind = "trailing"
)

// Range is one contiguous page span of the plan. Start and End are
// zero-based and inclusive. Name is the sanitized output file name
// without extension.
type Range struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Start int    `json:"start_page"`
	End   int    `json:"end_page"`
}

// Pages returns the number of pages the range covers.
func (r Range) Pages() int {
	return r.End - r.Start + 1
}

// Plan is an immutable, validated partition of a document's pages.
// Ranges are in processing order; adjacent ranges are contiguous and
// together they cover [0, PageCount-1] exactly once.
type Plan struct {
	Ranges    []Range `json:"ranges"`
	PageCount int     `json:"page_count"`
}

// Validate checks the partition invariant: at least one range, every
// range non-empty and in bounds, adjacent ranges contiguous, and the
// whole document covered. Analyze runs this before returning, so a
// failure here means the plan was constructed by hand or corrupted.
func (p *Plan) Validate() error {
	if p == nil || len(p.Ranges) == 0 {
		return fmt.Errorf("%w: plan has no ranges", ErrInvalidPartition)
	}
	if p.PageCount <= 0 {
		return fmt.Errorf("%w: page count %d", ErrInvalidPartition, p.PageCount)
	}
	if first := p.Ranges[0].Start; first != 0 {
		return fmt.Errorf("%w: first range starts at page %d, not 0", ErrInvalidPartition, first)
	}
	for i, r := range p.Ranges {
		if r.Start > r.End {
			return fmt.Errorf("%w: range %q is empty (%d > %d)", ErrInvalidPartition, r.Name, r.Start, r.End)
		}
		if r.End >= p.PageCount {
			return fmt.Errorf("%w: range %q ends at page %d beyond document end %d",
				ErrInvalidPartition, r.Name, r.End, p.PageCount-1)
		}
		if i > 0 && p.Ranges[i-1].End+1 != r.Start {
			return fmt.Errorf("%w: gap or overlap between %q and %q",
				ErrInvalidPartition, p.Ranges[i-1].Name, r.Name)
		}
	}
	if last := p.Ranges[len(p.Ranges)-1].End; last != p.PageCount-1 {
		return fmt.Errorf("%w: last range ends at page %d, not %d", ErrInvalidPartition, last, p.PageCount-1)
	}
	return nil
}
