package model

// Resource is an addressable unit of service capacity (a room). The room
// number is generated once at catalog initialization and never changes;
// the tier is fixed for the room's lifetime. History records the IDs of
// every task admitted against the room, in admission order.
type Resource struct {
	Number    string   `json:"number"`
	Tier      Tier     `json:"tier"`
	Zone      int      `json:"zone"`
	Amenities []string `json:"amenities,omitempty"`
	Occupied  bool     `json:"occupied"`
	Guest     string   `json:"guest,omitempty"`
	History   []int64  `json:"history,omitempty"`
}
