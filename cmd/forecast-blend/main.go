package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forecast-blend",
	Short: "forecast-blend - NWS and weather.com daily forecast blender",
	Long: `forecast-blend merges the National Weather Service period forecast with the
weather.com daily forecast into one daily record per date and publishes the
result as static JSON artifacts, optionally served over HTTP.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
