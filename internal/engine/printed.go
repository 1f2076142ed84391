package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/docsplit/docsplit/internal/split"
)

// Printed-contents line forms: decimal section numbers, roman numerals,
// alphabetic appendix labels, and an explicit Appendix prefix. Each
// captures (label, title, printed page).
var (
	printedNumRe      = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+(.+?)\s+(\d+)$`)
	printedRomanRe    = regexp.MustCompile(`^([IVXLCDM]+)\.?\s+(.+?)\s+(\d+)$`)
	printedAlphaRe    = regexp.MustCompile(`^([A-Z](?:\.\d+)*)\.?\s+(.+?)\s+(\d+)$`)
	printedAppendixRe = regexp.MustCompile(`^(?i:appendix)\s+([A-Z](?:\.\d+)*)\s+(.+?)\s+(\d+)$`)

	dotLeaderRe = regexp.MustCompile(`[.\x{00B7}\x{2022}\x{2026}]{2,}`)
)

// minPrintedEntries is the threshold below which a scan is considered
// to have found no contents at all.
const minPrintedEntries = 3

// ScanPrintedTOC extracts text from the first scanPages pages and
// parses printed table-of-contents lines into TOC entries. It is the
// fallback for documents without embedded bookmarks. pageOffset shifts
// printed page numbers to physical ones: a printed "page 1" maps to
// zero-based index pageOffset (cover pages typically push it positive).
func ScanPrintedTOC(path string, scanPages, pageOffset int) ([]split.Entry, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf for toc scan: %w", err)
	}
	defer f.Close()

	if scanPages <= 0 {
		scanPages = 20
	}
	if n := reader.NumPage(); scanPages > n {
		scanPages = n
	}

	var entries []split.Entry
	for i := 1; i <= scanPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			if e, ok := parsePrintedLine(line, pageOffset); ok {
				entries = append(entries, e)
			}
		}
	}

	if len(entries) < minPrintedEntries {
		return nil, fmt.Errorf("no printed table of contents found in first %d pages", scanPages)
	}
	return entries, nil
}

// parsePrintedLine matches one contents line and converts it to an
// Entry with a zero-based page. Nesting depth comes from the dotted
// label: "3" is level 1, "3.2" level 2, and so on.
func parsePrintedLine(line string, pageOffset int) (split.Entry, bool) {
	line = strings.Join(strings.Fields(dotLeaderRe.ReplaceAllString(line, " ")), " ")
	if line == "" {
		return split.Entry{}, false
	}

	label, title, pageStr := "", "", ""
	switch {
	case printedAppendixRe.MatchString(line):
		m := printedAppendixRe.FindStringSubmatch(line)
		label, title, pageStr = m[1], "Appendix "+m[1]+" "+m[2], m[3]
	case printedNumRe.MatchString(line):
		m := printedNumRe.FindStringSubmatch(line)
		label, title, pageStr = m[1], m[2], m[3]
	case printedRomanRe.MatchString(line):
		m := printedRomanRe.FindStringSubmatch(line)
		label, title, pageStr = "", m[2], m[3]
	case printedAlphaRe.MatchString(line):
		m := printedAlphaRe.FindStringSubmatch(line)
		label, title, pageStr = m[1], m[2], m[3]
	default:
		return split.Entry{}, false
	}

	printed, err := strconv.Atoi(pageStr)
	if err != nil || printed < 1 {
		return split.Entry{}, false
	}

	level := 1
	if label != "" {
		level = strings.Count(label, ".") + 1
	}
	return split.Entry{
		Level: level,
		Title: strings.TrimSpace(title),
		Page:  printed - 1 + pageOffset,
	}, true
}
