package commands

import (
	"stihirus-reader/internal/scrapers/stihirus"
	"stihirus-reader/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(poemCmd)
}

var poemCmd = &cobra.Command{
	Use:   "poem <id>",
	Short: "Prints a single poem.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := service.ParsePositiveId("poem id", args[0])
		if err != nil {
			return render(cmd.OutOrStdout(), service.Failure[stihirus.Poem](err), printPoem)
		}
		return render(cmd.OutOrStdout(), svc.GetPoemById(cmd.Context(), id), printPoem)
	},
}
