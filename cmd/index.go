package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adler0/ragent/internal/rag"
)

var indexCmd = &cobra.Command{
	Use:   "index [url-or-path...]",
	Short: "Ingest web pages or local files into the knowledge base",
	Long: `Index fetches each argument, splits it into overlapping chunks,
embeds the chunks, and stores them for retrieval. Arguments starting with
http:// or https:// are fetched as web pages; everything else is read as a
local text file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var failed int
	for _, arg := range args {
		var res *rag.IndexResult
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			res, err = a.Indexer.IndexURL(ctx, arg)
		} else {
			res, err = a.Indexer.IndexFile(ctx, arg)
		}
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "failed to index %s: %v\n", arg, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "indexed %s: %d chunks in %s\n",
			res.Source, res.ChunksAdded, res.Duration.Round(10*time.Millisecond))
		if res.ChunksFailed > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %d chunks failed\n", res.ChunksFailed)
		}
	}

	if failed == len(args) {
		return fmt.Errorf("all %d sources failed to index", failed)
	}
	return nil
}
