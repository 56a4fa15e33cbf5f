package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/me/servq/pkg/model"
	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "rooms [number]",
		Short: "List rooms, or show one room in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRoom(args[0])
			}

			path := "/api/v1/rooms"
			if tier != "" {
				resp, err := client.Get(path + "?tier=" + tier)
				if err != nil {
					return fmt.Errorf("list rooms: %w", err)
				}
				var data struct {
					Tier  model.Tier `json:"tier"`
					Rooms []string   `json:"rooms"`
				}
				if err := json.Unmarshal(resp.Data, &data); err != nil {
					return fmt.Errorf("parse response: %w", err)
				}
				fmt.Printf("%s rooms (%d): %s\n", data.Tier, len(data.Rooms), strings.Join(data.Rooms, " "))
				return nil
			}

			resp, err := client.Get(path)
			if err != nil {
				return fmt.Errorf("list rooms: %w", err)
			}
			var rooms []model.Resource
			if err := json.Unmarshal(resp.Data, &rooms); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("%-8s  %-8s  %-5s  %-9s  %s\n", "ROOM", "TIER", "ZONE", "OCCUPIED", "GUEST")
			for _, r := range rooms {
				occupied := "no"
				if r.Occupied {
					occupied = "yes"
				}
				fmt.Printf("%-8s  %-8s  %-5d  %-9s  %s\n", r.Number, r.Tier, r.Zone, occupied, r.Guest)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tier, "tier", "t", "", "Filter by tier (Tier-A, Tier-B, Tier-C)")
	return cmd
}

func showRoom(number string) error {
	resp, err := client.Get("/api/v1/rooms/" + number)
	if err != nil {
		return fmt.Errorf("get room: %w", err)
	}
	var room model.Resource
	if err := json.Unmarshal(resp.Data, &room); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("Room %s (%s, zone %d)\n", room.Number, room.Tier, room.Zone)
	if room.Occupied {
		fmt.Printf("Occupied by: %s\n", room.Guest)
	} else {
		fmt.Println("Vacant")
	}
	fmt.Printf("Amenities: %s\n", strings.Join(room.Amenities, ", "))
	if len(room.History) > 0 {
		ids := make([]string, len(room.History))
		for i, id := range room.History {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Printf("Task history: %s\n", strings.Join(ids, ", "))
	}
	return nil
}

func newCheckInCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <room> <guest>",
		Short: "Check a guest into a room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := client.Put("/api/v1/rooms/"+args[0]+"/checkin", map[string]string{"guest": args[1]})
			if err != nil {
				return fmt.Errorf("check in: %w", err)
			}
			fmt.Printf("Room %s checked in for %s\n", args[0], args[1])
			return nil
		},
	}
}

func newCheckOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <room>",
		Short: "Check a guest out of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := client.Put("/api/v1/rooms/"+args[0]+"/checkout", nil)
			if err != nil {
				return fmt.Errorf("check out: %w", err)
			}
			fmt.Printf("Room %s checked out\n", args[0])
			return nil
		},
	}
}
