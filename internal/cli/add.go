package cli

import (
	"encoding/json"
	"fmt"

	"github.com/me/servq/pkg/model"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var (
		minutes     int
		description string
	)
	cmd := &cobra.Command{
		Use:   "add <room> <type>",
		Short: "Admit a service request against a room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Post("/api/v1/tasks", map[string]any{
				"room":        args[0],
				"type":        args[1],
				"minutes":     minutes,
				"description": description,
			})
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}

			var task model.Task
			if err := json.Unmarshal(resp.Data, &task); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("Task %d admitted: %s for room %s (%s, rank %d, $%.2f)\n",
				task.ID, task.Type, task.Room, task.Tier, task.Rank, task.Charge)
			return nil
		},
	}
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 30, "Estimated duration in minutes")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Free-text description")
	return cmd
}

func newQuickCmd() *cobra.Command {
	var minutes int
	cmd := &cobra.Command{
		Use:   "quick <tier> <type>",
		Short: "Admit a request against a random room of a tier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Post("/api/v1/tasks/quick", map[string]any{
				"tier":    args[0],
				"type":    args[1],
				"minutes": minutes,
			})
			if err != nil {
				return fmt.Errorf("quick add: %w", err)
			}

			var task model.Task
			if err := json.Unmarshal(resp.Data, &task); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("Task %d admitted: %s for room %s (%s, $%.2f)\n",
				task.ID, task.Type, task.Room, task.Tier, task.Charge)
			return nil
		},
	}
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 30, "Estimated duration in minutes")
	return cmd
}
