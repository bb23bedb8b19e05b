package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var blendCmd = &cobra.Command{
	Use:   "blend",
	Short: "Refresh every configured point once and exit",
	Long: `Fetch both providers for every configured point, write the blended
<lat>_<lon>_7day.json artifacts and index.json to OUT_DIR, then exit.
Points whose weather.com fetch fails keep their previous artifact.`,
	RunE: runBlend,
}

func init() {
	rootCmd.AddCommand(blendCmd)
}

func runBlend(cmd *cobra.Command, args []string) error {
	a, err := newApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	refreshErr := a.service.RefreshAll(cmd.Context(), a.cfg.Points)
	if refreshErr != nil {
		a.logger.Error("some points failed to refresh", zap.Error(refreshErr))
	}

	idx, err := a.indexer.Write()
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d forecast files in %s\n", len(idx.Points), a.files.Dir())
	a.logger.Info("blend complete", zap.Int("points", len(a.cfg.Points)), zap.Int("indexed", len(idx.Points)))

	return refreshErr
}
