package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the dispatch loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Post("/api/v1/scheduler/start", nil); err != nil {
				return fmt.Errorf("start dispatch: %w", err)
			}
			fmt.Println("Dispatch running.")
			return nil
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the dispatch loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Post("/api/v1/scheduler/stop", nil); err != nil {
				return fmt.Errorf("stop dispatch: %w", err)
			}
			fmt.Println("Dispatch stopped.")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show scheduler status",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/scheduler/status")
			if err != nil {
				return fmt.Errorf("get status: %w", err)
			}
			var data struct {
				Running     bool   `json:"running"`
				Policy      string `json:"policy"`
				Description string `json:"description"`
				TimeQuantum int    `json:"time_quantum"`
				Pending     int    `json:"pending"`
				Completed   int    `json:"completed"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			state := "idle"
			if data.Running {
				state = "running"
			}
			fmt.Printf("Dispatch:  %s\n", state)
			fmt.Printf("Policy:    %s (quantum %d min)\n", data.Policy, data.TimeQuantum)
			fmt.Printf("Pending:   %d\n", data.Pending)
			fmt.Printf("Completed: %d\n", data.Completed)
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all pending and completed tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Delete("/api/v1/tasks"); err != nil {
				return fmt.Errorf("clear tasks: %w", err)
			}
			fmt.Println("All tasks cleared.")
			return nil
		},
	}
}
