package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/drewzambelli/wtml/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(uploadCmd)
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Uploads the roster and travel reports to the warehouse.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()

		err := p.RunStage(cmd.Context(), "upload")
		if err != nil {
			serviceutil.Fatal("warehouse upload failed", err)
		}
		p.RenderSummary(os.Stdout)
	},
}
