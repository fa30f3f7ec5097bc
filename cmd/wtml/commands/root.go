package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drewzambelli/wtml/internal/pipeline"
	"github.com/drewzambelli/wtml/lib/serviceutil"
	"github.com/drewzambelli/wtml/lib/telemetry"
)

var verbose *bool
var configPath *string

var rootCmd = &cobra.Command{
	Use:   "wtml",
	Short: "wtml scrapes House of Representatives members and their gift travel filings.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging.")
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "Path to the pipeline config file.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPipeline() *pipeline.Pipeline {
	config, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return pipeline.New(config, pipeline.LoadCredentials())
}
