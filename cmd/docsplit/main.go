package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docsplit",
	Short: "Split a PDF into chapters along its table of contents",
	Long: `docsplit reads the embedded bookmark outline of a PDF (or, as a
fallback, its printed contents pages), computes a page-complete split
plan from the top-level entries, and writes one output PDF per chapter.`,
}

// Flags shared by plan and run.
var (
	flagPrintedFallback bool
	flagScanPages       int
	flagPageOffset      int
	flagNameMaxRunes    int
	flagTrailingMarkers []string
)

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagPrintedFallback, "printed-fallback", false,
		"parse printed contents pages when the PDF has no bookmarks")
	cmd.Flags().IntVar(&flagScanPages, "scan-pages", 20,
		"pages to scan for a printed table of contents")
	cmd.Flags().IntVar(&flagPageOffset, "page-offset", 0,
		"physical page index of printed page 1 (for front-matter offsets)")
	cmd.Flags().IntVar(&flagNameMaxRunes, "max-name", 100,
		"maximum length of sanitized output names")
	cmd.Flags().StringSliceVar(&flagTrailingMarkers, "trailing-marker", nil,
		"title markers classifying the final section as back matter (default: appendix, index, ...)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
