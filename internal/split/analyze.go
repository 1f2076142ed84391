package split

import (
	"fmt"
	"strings"
)

// DefaultNameMaxRunes bounds sanitized range names.
const DefaultNameMaxRunes = 100

// DefaultLeadingLabel names the synthesized leading range.
const DefaultLeadingLabel = "front_matter"

// defaultTrailingMarkers mark a final top-level entry as back matter
// rather than an ordinary chapter.
var defaultTrailingMarkers = []string{
	"appendix", "appendices", "back matter", "colophon", "afterword",
	"index", "附录", "後記",
}

// Options tune analysis. The zero value is usable.
type Options struct {
	// NameMaxRunes bounds sanitized names. Defaults to DefaultNameMaxRunes.
	NameMaxRunes int
	// LeadingLabel names the leading range. Defaults to DefaultLeadingLabel.
	LeadingLabel string
	// TrailingMarkers override the default back-matter title markers.
	// A final top-level entry whose title contains one of these
	// (case-insensitive) becomes a trailing range instead of a chapter.
	TrailingMarkers []string
}

func (o Options) nameMaxRunes() int {
	if o.NameMaxRunes > 0 {
		return o.NameMaxRunes
	}
	return DefaultNameMaxRunes
}

func (o Options) leadingLabel() string {
	if o.LeadingLabel != "" {
		return o.LeadingLabel
	}
	return DefaultLeadingLabel
}

func (o Options) trailingMarkers() []string {
	if o.TrailingMarkers != nil {
		return o.TrailingMarkers
	}
	return defaultTrailingMarkers
}

// Analyze converts a raw TOC and a total page count into a validated
// Plan. Only level-1 entries define boundaries; deeper entries are
// ignored. Entries whose page moves backwards are dropped as mis-ordered
// bookmarks, and when several entries claim the same page only the last
// one is kept, so no range is ever empty. Pages before the first chapter
// become a leading range; the last chapter absorbs all pages to the
// document end unless its title marks it as back matter, in which case
// it is classified trailing.
func Analyze(entries []Entry, pageCount int, opts Options) (*Plan, error) {
	if pageCount <= 0 {
		return nil, fmt.Errorf("%w: page count %d", ErrEmptyDocument, pageCount)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyTOC
	}

	top := topLevel(entries, pageCount)
	if len(top) == 0 {
		return nil, fmt.Errorf("%w (%d entries total)", ErrNoTopLevelEntry, len(entries))
	}
	top = normalize(top)

	var ranges []Range

	if first := top[0].Page; first > 0 {
		ranges = append(ranges, Range{
			Kind:  KindLeading,
			Title: opts.leadingLabel(),
			Start: 0,
			End:   first - 1,
		})
	}

	markers := opts.trailingMarkers()
	for i, e := range top {
		r := Range{Kind: KindChapter, Title: e.Title, Start: e.Page}
		if i+1 < len(top) {
			r.End = top[i+1].Page - 1
		} else {
			r.End = pageCount - 1
			if matchesMarker(e.Title, markers) {
				r.Kind = KindTrailing
			}
		}
		ranges = append(ranges, r)
	}

	assignNames(ranges, opts)

	plan := &Plan{Ranges: ranges, PageCount: pageCount}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// topLevel filters to level-1 entries in original order, discarding
// entries whose target page falls outside the document.
func topLevel(entries []Entry, pageCount int) []Entry {
	var top []Entry
	for _, e := range entries {
		if e.Level != 1 {
			continue
		}
		if e.Page < 0 || e.Page >= pageCount {
			continue
		}
		top = append(top, e)
	}
	return top
}

// normalize makes the chapter sequence usable for boundary computation:
// entries jumping backwards are dropped, and within a run of entries
// sharing a page the last one wins. The result is strictly increasing
// in page number.
func normalize(top []Entry) []Entry {
	kept := top[:0:0]
	for _, e := range top {
		if len(kept) > 0 && e.Page < kept[len(kept)-1].Page {
			continue
		}
		if len(kept) > 0 && e.Page == kept[len(kept)-1].Page {
			kept[len(kept)-1] = e
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func matchesMarker(title string, markers []string) bool {
	lower := strings.ToLower(title)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// assignNames gives every range its ordinal-prefixed file name. The
// leading range takes ordinal zero; chapters count from one in plan
// order. Ordinal prefixes keep names unique even when titles repeat.
func assignNames(ranges []Range, opts Options) {
	width := 2
	for n := len(ranges); n > 99; n /= 10 {
		width++
	}
	ord := 0
	for i := range ranges {
		if ranges[i].Kind != KindLeading {
			ord++
		}
		name := SanitizeName(ranges[i].Title, opts.nameMaxRunes())
		ranges[i].Name = fmt.Sprintf("%0*d_%s", width, ordinalFor(ranges[i].Kind, ord), name)
	}
}

func ordinalFor(kind Kind, ord int) int {
	if kind == KindLeading {
		return 0
	}
	return ord
}
