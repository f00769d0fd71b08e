package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var homepageSection string

func init() {
	homepageCmd.Flags().StringVar(
		&homepageSection, "section", "",
		"Only print one section: recommended, weekly, active or promo.",
	)
	rootCmd.AddCommand(homepageCmd)
}

var homepageCmd = &cobra.Command{
	Use:   "homepage [--section <name>]",
	Short: "Prints the authors and poems featured on the landing page.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		switch homepageSection {
		case "":
			return render(out, svc.GetHomepage(ctx), printHomepage)
		case "recommended":
			return render(out, svc.GetRecommendedAuthors(ctx), printAuthors("Recommended authors"))
		case "weekly":
			return render(out, svc.GetWeeklyRatedAuthors(ctx), printAuthors("Weekly rated authors"))
		case "active":
			return render(out, svc.GetActiveAuthors(ctx), printAuthors("Active authors"))
		case "promo":
			return render(out, svc.GetPromoPoems(ctx), printPromoPoems)
		default:
			return fmt.Errorf("unknown section %q", homepageSection)
		}
	},
}
