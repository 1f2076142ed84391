package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsplit/docsplit/internal/report"
	"github.com/docsplit/docsplit/internal/split"
)

var (
	flagOutDir string
	flagExt    string
)

var runCmd = &cobra.Command{
	Use:   "run <pdf>",
	Short: "Split the document into one file per plan range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		plan, doc, err := analyzeFile(path)
		if err != nil {
			return err
		}
		defer doc.Close()

		outDir := flagOutDir
		if outDir == "" {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outDir = base + "_split"
		}

		renderPlan(os.Stdout, path, plan)
		fmt.Fprintln(os.Stdout)

		// Ctrl-C stops at the next range boundary; the in-flight
		// range still finishes.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		rep, err := split.Execute(ctx, plan, doc, outDir, split.ExecOptions{
			Extension: flagExt,
			Progress: func(done, total int, name string) {
				renderProgress(os.Stdout, done, total, name)
			},
		})
		if err != nil {
			return err
		}

		if err := report.Write(outDir, report.Manifest(filepath.Base(path), plan, rep)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}

		renderSummary(os.Stdout, outDir, rep)
		if !rep.Success() {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	addAnalyzeFlags(runCmd)
	runCmd.Flags().StringVarP(&flagOutDir, "out", "o", "", "output directory (default: <name>_split)")
	runCmd.Flags().StringVar(&flagExt, "ext", "pdf", "output file extension")
	rootCmd.AddCommand(runCmd)
}
