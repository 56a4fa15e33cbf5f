package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/me/servq/internal/notify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream scheduler events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequestWithContext(cmd.Context(), "GET",
				flagServer+"/api/v1/sse/events", nil)
			if err != nil {
				return fmt.Errorf("create request: %w", err)
			}
			req.Header.Set("Accept", "text/event-stream")

			resp, err := client.HTTPClient.Do(req)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}

			fmt.Println("Watching scheduler events (Ctrl-C to stop)...")
			scanner := bufio.NewScanner(resp.Body)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				line := scanner.Text()
				if !strings.HasPrefix(line, "data: ") {
					continue
				}
				var ev notify.Event
				if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
					logger.Debug("bad event payload", "error", err)
					continue
				}
				printEvent(ev)
			}
			return scanner.Err()
		},
	}
}

func printEvent(ev notify.Event) {
	switch ev.Type {
	case notify.EventQueue:
		fmt.Printf("queue: %d pending, %d completed\n", len(ev.Pending), len(ev.Completed))
	case notify.EventCurrent:
		if ev.Current == nil {
			fmt.Println("current: none")
			return
		}
		t := ev.Current
		fmt.Printf("current: task %d %s for room %s (%s, %s, $%.2f)\n",
			t.ID, t.Type, t.Room, t.Tier, t.Worker, t.Charge)
	case notify.EventProgress:
		fmt.Printf("progress: %d%%\n", ev.Percent)
	}
}
