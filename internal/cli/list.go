package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/me/servq/pkg/model"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending tasks in scheduled order",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/tasks")
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}

			var data struct {
				Policy model.Policy `json:"policy"`
				Tasks  []model.Task `json:"tasks"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(data.Tasks) == 0 {
				fmt.Println("No pending tasks.")
				return nil
			}

			fmt.Printf("Policy: %s\n\n", data.Policy)
			fmt.Printf("%-6s  %-8s  %-8s  %-24s  %-5s  %-8s  %-9s  %s\n",
				"ID", "TIER", "ROOM", "TYPE", "RANK", "MINUTES", "CHARGE", "CREATED")
			for _, t := range data.Tasks {
				fmt.Printf("%-6d  %-8s  %-8s  %-24s  %-5d  %-8d  $%-8.2f  %s\n",
					t.ID, t.Tier, t.Room, t.Type, t.Rank, t.EstimatedMinutes, t.Charge,
					humanize.Time(t.CreatedAt))
			}
			return nil
		},
	}
}

func newCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completed",
		Short: "List completed tasks in completion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/tasks/completed")
			if err != nil {
				return fmt.Errorf("list completed: %w", err)
			}

			var tasks []model.Task
			if err := json.Unmarshal(resp.Data, &tasks); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("No completed tasks.")
				return nil
			}

			fmt.Printf("%-6s  %-8s  %-8s  %-24s  %-24s  %-8s  %s\n",
				"ID", "TIER", "ROOM", "TYPE", "WORKER", "MINUTES", "CHARGE")
			var total float64
			for _, t := range tasks {
				fmt.Printf("%-6d  %-8s  %-8s  %-24s  %-24s  %-8d  $%.2f\n",
					t.ID, t.Tier, t.Room, t.Type, t.Worker, t.ActualMinutes, t.Charge)
				total += t.Charge
			}
			fmt.Printf("\n%d completed, $%.2f total\n", len(tasks), total)
			return nil
		},
	}
}
