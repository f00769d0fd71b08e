package commands

import (
	"time"

	"stihirus-reader/internal/scrapers/stihirus"
	"stihirus-reader/internal/service"

	"github.com/spf13/cobra"
)

var authorFlags struct {
	page     int
	delayMs  int
	rubricId int64
	year     int
	month    int
}

func init() {
	flags := authorCmd.Flags()
	flags.IntVar(&authorFlags.page, "page", 0, "Fetch a single page of poems, 0 fetches the profile alone. All pages when unset.")
	flags.IntVar(&authorFlags.delayMs, "delay-ms", 0, "Delay between page requests, 0 uses the configured delay.")
	flags.Int64Var(&authorFlags.rubricId, "rubric-id", 0, "Only poems in this rubric.")
	flags.IntVar(&authorFlags.year, "year", 0, "Only poems published in this year.")
	flags.IntVar(&authorFlags.month, "month", 0, "Only poems published in this month (1-12).")
	rootCmd.AddCommand(authorCmd)
	rootCmd.AddCommand(filtersCmd)
}

var authorCmd = &cobra.Command{
	Use:   "author <id | username | profile url>",
	Short: "Prints an author's profile and poems.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := service.AuthorDataOptions{
			RequestDelay: time.Duration(authorFlags.delayMs) * time.Millisecond,
			Filters: stihirus.FilterOptions{
				RubricId: authorFlags.rubricId,
				Year:     authorFlags.year,
				Month:    authorFlags.month,
			},
		}
		if cmd.Flags().Changed("page") {
			page := authorFlags.page
			opts.Page = &page
		}
		if authorFlags.delayMs < 0 {
			return render(cmd.OutOrStdout(), service.Failure[stihirus.AuthorProfile](
				&stihirus.Error{Kind: stihirus.ErrInvalidInput, Message: "delay-ms must not be negative"},
			), printProfile)
		}

		res := svc.GetAuthorData(cmd.Context(), stihirus.ParseIdentifier(args[0]), opts)
		return render(cmd.OutOrStdout(), res, printProfile)
	},
}

var filtersCmd = &cobra.Command{
	Use:   "filters <id | username | profile url>",
	Short: "Prints the rubrics and publication months an author's poems can be filtered by.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := svc.GetAuthorFilters(cmd.Context(), stihirus.ParseIdentifier(args[0]))
		return render(cmd.OutOrStdout(), res, printFilters)
	},
}
