package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/forecast-blend/internal/catalog"
)

var indexDir string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild index.json from the artifacts in a directory",
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexDir, "dir", "api/forecast", "artifact directory")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	idx, err := catalog.NewIndexer(indexDir).Write()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d forecast files in %s\n", len(idx.Points), indexDir)
	return nil
}
