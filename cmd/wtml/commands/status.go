package commands

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the artifact inventory of the work directory.",
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()
		p.RenderStatus(os.Stdout)
	},
}
