package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/drewzambelli/wtml/lib/serviceutil"
)

var linksMaxPages *int

func init() {
	linksMaxPages = linksCmd.Flags().Int("max-pages", 0, "Stop after this many directory pages, 0 means all.")
	rootCmd.AddCommand(linksCmd)
}

var linksCmd = &cobra.Command{
	Use:   "links [--max-pages <n>]",
	Short: "Collects member profile links from the Clerk member directory.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()
		p.MaxPages = *linksMaxPages

		err := p.RunStage(cmd.Context(), "links")
		if err != nil {
			serviceutil.Fatal("link collection failed", err)
		}
		p.RenderSummary(os.Stdout)
	},
}
