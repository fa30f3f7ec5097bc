package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/drewzambelli/wtml/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(detailsCmd)
}

var detailsCmd = &cobra.Command{
	Use:   "details",
	Short: "Scrapes the detail page of every collected member link.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()

		err := p.RunStage(cmd.Context(), "details")
		if err != nil {
			serviceutil.Fatal("member detail scrape failed", err)
		}
		p.RenderSummary(os.Stdout)
	},
}
