package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/me/servq/pkg/model"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-tier completion totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/stats")
			if err != nil {
				return fmt.Errorf("get stats: %w", err)
			}
			var stats []model.TierStats
			if err := json.Unmarshal(resp.Data, &stats); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(stats) == 0 {
				fmt.Println("No completed tasks recorded yet.")
				return nil
			}

			fmt.Printf("%-8s  %-10s  %-12s  %s\n", "TIER", "COMPLETED", "MINUTES", "REVENUE")
			var minutes int64
			var revenue float64
			for _, s := range stats {
				fmt.Printf("%-8s  %-10d  %-12d  $%.2f\n", s.Tier, s.Completed, s.TotalMinutes, s.Revenue)
				minutes += int64(s.TotalMinutes)
				revenue += s.Revenue
			}
			fmt.Printf("\nTotal: %s minutes of service, $%.2f revenue\n",
				humanize.Comma(minutes), revenue)
			return nil
		},
	}
}
