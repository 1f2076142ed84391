package split

import "errors"

// Analysis errors. All are fatal to the Analyze call; no partial plan is
// ever returned. Callers match with errors.Is.
var (
	// ErrEmptyTOC means the document carries no table of contents at all.
	ErrEmptyTOC = errors.New("document has no table of contents")

	// ErrEmptyDocument means the document has no pages to partition.
	ErrEmptyDocument = errors.New("document has no pages")

	// ErrNoTopLevelEntry means the TOC exists but contains no level-1
	// entry to derive chapter boundaries from.
	ErrNoTopLevelEntry = errors.New("table of contents has no top-level entry")

	// ErrInvalidPartition means a plan violates the partition invariant.
	// Unreachable through Analyze; guards the executor against
	// hand-built plans.
	ErrInvalidPartition = errors.New("invalid page partition")
)
