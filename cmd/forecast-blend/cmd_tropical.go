package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/forecast-blend/internal/tropical"
)

var tropicalCmd = &cobra.Command{
	Use:   "tropical",
	Short: "Fetch the weather.com tropical cone once and write the storm summary",
	Long: `Fetch active storms for every basin in TROPICAL_BASINS and write the
summary to TROPICAL_FILE (api/tropical_summary.json by default). Requires API_TWC.`,
	RunE: runTropical,
}

func init() {
	rootCmd.AddCommand(tropicalCmd)
}

func runTropical(cmd *cobra.Command, args []string) error {
	a, err := newApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if a.tropical == nil {
		return errors.Join(tropical.ErrNoSource, errors.New("set API_TWC and TROPICAL_BASINS"))
	}

	summary, err := a.tropical.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d storms to %s\n", len(summary.Storms), a.cfg.TropicalFile)
	return nil
}
