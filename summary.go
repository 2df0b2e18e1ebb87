package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"election-dashboard/models"
	"election-dashboard/services"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard aggregates for a state to the terminal",
	Long: `summary runs the same filter cascade as the dashboard and prints the party
totals, turnout by constituency and winning margin statistics for the
selection. Repeat --party or --candidate to select several; omit them to
select everything in the state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore(cmd.Context())
		if err != nil {
			return err
		}
		filters := services.NewFilterCascade(store)
		insights := services.NewInsightService(logger, cfg.MarginBins)

		state, _ := cmd.Flags().GetString("state")
		parties, _ := cmd.Flags().GetStringArray("party")
		candidates, _ := cmd.Flags().GetStringArray("candidate")

		sel := models.Selection{
			State:      filters.ResolveState(state),
			Parties:    parties,
			Candidates: candidates,
		}
		report := insights.Generate(sel, filters.Apply(sel), store.Winners())
		insights.Print(os.Stdout, report)

		if query, _ := cmd.Flags().GetString("search"); query != "" {
			found := filters.Search(query)
			if len(found) == 0 {
				fmt.Println("  " + services.NoticeNoSearchResults)
				return nil
			}
			fmt.Printf("  %s rows match %q\n", humanize.Comma(int64(len(found))), query)
			for _, r := range found {
				fmt.Printf("  %-20s %-24s %-24s %-12s %12s\n",
					r.State, r.PCName, r.CandidateName, r.Party, humanize.Commaf(r.TotalVotes))
			}
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().String("state", "", "state to summarize (default: first state in the data)")
	summaryCmd.Flags().StringArray("party", []string{models.SelectAll}, "party to include; repeatable")
	summaryCmd.Flags().StringArray("candidate", []string{models.SelectAll}, "candidate to include; repeatable")
	summaryCmd.Flags().String("search", "", "also list rows of the whole table matching this text")

	rootCmd.AddCommand(summaryCmd)
}
