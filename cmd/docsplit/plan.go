package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsplit/docsplit/internal/engine"
	"github.com/docsplit/docsplit/internal/split"
)

var planCmd = &cobra.Command{
	Use:   "plan <pdf>",
	Short: "Preview the split plan without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, doc, err := analyzeFile(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()
		renderPlan(os.Stdout, args[0], plan)
		return nil
	},
}

func init() {
	addAnalyzeFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

// analyzeFile opens the document and builds its split plan using the
// shared analysis flags. The caller owns the returned handle.
func analyzeFile(path string) (*split.Plan, *engine.PDF, error) {
	doc, err := engine.Open(path)
	if err != nil {
		return nil, nil, err
	}

	toc := doc.TOC()
	if len(toc) == 0 && flagPrintedFallback {
		entries, scanErr := engine.ScanPrintedTOC(path, flagScanPages, flagPageOffset)
		if scanErr != nil {
			doc.Close()
			return nil, nil, fmt.Errorf("no bookmarks and %w", scanErr)
		}
		doc.SetTOC(entries)
		toc = entries
	}

	plan, err := split.Analyze(toc, doc.PageCount(), split.Options{
		NameMaxRunes:    flagNameMaxRunes,
		TrailingMarkers: flagTrailingMarkers,
	})
	if err != nil {
		doc.Close()
		return nil, nil, err
	}
	return plan, doc, nil
}
