package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/drewzambelli/wtml/lib/serviceutil"
)

var runYears *[]int
var runMaxPages *int
var runNoUpload *bool

func init() {
	runYears = runCmd.Flags().IntSlice("years", nil, "Only process these travel archive years.")
	runMaxPages = runCmd.Flags().Int("max-pages", 0, "Stop after this many directory pages, 0 means all.")
	runNoUpload = runCmd.Flags().Bool("no-upload", false, "Skip the warehouse upload stage.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--years <y1,y2>] [--max-pages <n>] [--no-upload]",
	Short: "Runs every pipeline stage in order.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()
		p.Years = *runYears
		p.MaxPages = *runMaxPages
		p.NoUpload = *runNoUpload

		runErr := p.Run(cmd.Context())
		outcome := "ok"
		if runErr != nil {
			outcome = runErr.Error()
		}
		p.RenderSummary(os.Stdout)

		err := p.EmailReport(cmd.Context(), outcome)
		if err != nil {
			slog.Error("failed to email run report", "err", err)
		}
		if runErr != nil {
			serviceutil.Fatal("pipeline run failed", runErr)
		}
	},
}
