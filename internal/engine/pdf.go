// Package engine opens PDF documents and exposes the narrow view the
// splitter core needs: page count, table of contents, and page-range
// extraction. It is backed by pdfcpu, with an optional printed-contents
// fallback for documents without embedded bookmarks.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docsplit/docsplit/internal/split"
)

// PDF is an open document handle. Not safe for concurrent use; one
// executor at a time per handle.
type PDF struct {
	path      string
	f         *os.File
	conf      *model.Configuration
	pageCount int
	toc       []split.Entry
}

// Open reads and validates the PDF at path and loads its embedded
// bookmark outline. A document without bookmarks opens fine with an
// empty TOC; callers decide whether to fall back to ScanPrintedTOC.
func Open(path string) (*PDF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}

	p := &PDF{
		path:      path,
		f:         f,
		conf:      conf,
		pageCount: pdfCtx.PageCount,
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek pdf: %w", err)
	}
	// pdfcpu reports an error for outlines it cannot walk; treat that
	// the same as no bookmarks and leave fallback to the caller.
	if bms, err := api.Bookmarks(f, conf); err == nil {
		p.toc = flattenBookmarks(bms, 1)
	}

	return p, nil
}

// Path returns the file path the handle was opened from.
func (p *PDF) Path() string { return p.path }

// PageCount reports the total number of pages.
func (p *PDF) PageCount() int { return p.pageCount }

// TOC returns the flattened bookmark outline in document order, with
// zero-based pages. Empty when the document has no usable bookmarks.
func (p *PDF) TOC() []split.Entry { return p.toc }

// SetTOC replaces the handle's TOC, used when a fallback source (the
// printed contents pages) supplied the entries.
func (p *PDF) SetTOC(entries []split.Entry) { p.toc = entries }

// ExtractRange writes pages [start, end] (zero-based, inclusive) as a
// standalone PDF to w.
func (p *PDF) ExtractRange(ctx context.Context, start, end int, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if start < 0 || end >= p.pageCount || start > end {
		return fmt.Errorf("page range %d-%d out of bounds (document has %d pages)", start, end, p.pageCount)
	}
	if _, err := p.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek pdf: %w", err)
	}
	// pdfcpu page selectors are 1-based.
	sel := []string{fmt.Sprintf("%d-%d", start+1, end+1)}
	if err := api.Trim(p.f, w, sel, p.conf); err != nil {
		return fmt.Errorf("trim pages %s: %w", sel[0], err)
	}
	return nil
}

// Close releases the underlying file.
func (p *PDF) Close() error {
	return p.f.Close()
}

// flattenBookmarks walks the outline tree depth-first, mapping nesting
// depth to TOC level and 1-based pdfcpu pages to zero-based entries.
func flattenBookmarks(bms []pdfcpu.Bookmark, level int) []split.Entry {
	var out []split.Entry
	for _, bm := range bms {
		if bm.PageFrom >= 1 {
			out = append(out, split.Entry{
				Level: level,
				Title: bm.Title,
				Page:  bm.PageFrom - 1,
			})
		}
		out = append(out, flattenBookmarks(bm.Kids, level+1)...)
	}
	return out
}
