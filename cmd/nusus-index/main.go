// Package main is the corpus provisioning CLI: it converts JSONL passage
// exports into the SQLite FTS5 index the API serves from, and can write a
// small sample dataset for demos and smoke tests.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alaifari/nususai/internal/corpus"
)

var rootCmd = &cobra.Command{
	Use:   "nusus-index",
	Short: "Build and seed the local corpus index",
	Long: `nusus-index manages the local corpus SQLite index.

Use "build" to index a JSONL passage export, and "seed" to write the bundled
sample dataset for a quick local setup. The API server only ever reads the
resulting index; it is rebuilt from scratch on every build.`,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the SQLite FTS5 index from a JSONL passage export",
	Long: `Build reads passages from a JSONL file (one object per line with the
fields id, book_title_ar, author_ar, source_ref_ar, volume, page, text_ar)
and writes a fresh SQLite FTS5 index. Rows missing required fields are
skipped and reported.`,
	RunE: runBuild,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the bundled sample dataset as JSONL",
	RunE:  runSeed,
}

func runBuild(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	summary, err := corpus.BuildIndex(context.Background(), input, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d passages into %s (%d skipped)\n",
		summary.Indexed, output, summary.Skipped)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := corpus.WriteSampleJSONL(output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample dataset to %s\n", output)
	return nil
}

func init() {
	buildCmd.Flags().String("input", "", "input JSONL path")
	buildCmd.Flags().String("output", "./data/corpus.sqlite", "output SQLite index path")
	_ = buildCmd.MarkFlagRequired("input")

	seedCmd.Flags().String("output", "./data/corpus_sample.jsonl", "output JSONL path")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
