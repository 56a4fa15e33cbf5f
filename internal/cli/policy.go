package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newPolicyCmd() *cobra.Command {
	var quantum int
	cmd := &cobra.Command{
		Use:   "policy [name]",
		Short: "Show or set the scheduling policy",
		Long:  "Without arguments, shows the current policy and the available ones.\nWith a name (FCFS, Priority, ShortestJobFirst, RoundRobin), switches to it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				resp, err := client.Get("/api/v1/scheduler/policy")
				if err != nil {
					return fmt.Errorf("get policy: %w", err)
				}
				var data struct {
					Policy      string `json:"policy"`
					TimeQuantum int    `json:"time_quantum"`
					Available   []struct {
						Name        string `json:"name"`
						Description string `json:"description"`
					} `json:"available"`
				}
				if err := json.Unmarshal(resp.Data, &data); err != nil {
					return fmt.Errorf("parse response: %w", err)
				}
				fmt.Printf("Current policy: %s (time quantum %d min)\n\n", data.Policy, data.TimeQuantum)
				for _, p := range data.Available {
					marker := "  "
					if p.Name == data.Policy {
						marker = "* "
					}
					fmt.Printf("%s%-18s %s\n", marker, p.Name, p.Description)
				}
				return nil
			}

			body := map[string]any{"policy": args[0]}
			if quantum > 0 {
				body["time_quantum"] = quantum
			}
			resp, err := client.Put("/api/v1/scheduler/policy", body)
			if err != nil {
				return fmt.Errorf("set policy: %w", err)
			}
			var data struct {
				Policy      string `json:"policy"`
				Description string `json:"description"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			fmt.Printf("Policy set to %s\n%s\n", data.Policy, data.Description)
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantum, "quantum", "q", 0, "Round-robin time quantum in minutes (informational)")
	return cmd
}
