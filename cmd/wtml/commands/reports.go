package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/drewzambelli/wtml/lib/serviceutil"
)

var reportYears *[]int

func init() {
	reportYears = reportsCmd.Flags().IntSlice("years", nil, "Only process these travel archive years.")
	rootCmd.AddCommand(reportsCmd)
}

var reportsCmd = &cobra.Command{
	Use:   "reports [--years <y1,y2>]",
	Short: "Downloads the gift travel archives and extracts their filings.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()
		p.Years = *reportYears

		err := p.RunStage(cmd.Context(), "reports")
		if err != nil {
			serviceutil.Fatal("travel report scrape failed", err)
		}
		p.RenderSummary(os.Stdout)
	},
}
