// Package catalog holds the static room population and the tier side table.
// Rooms are generated deterministically from zone specs at initialization and
// never added, removed, or re-tiered afterwards.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/me/servq/pkg/model"
)

// ZoneSpec describes one contiguous run of zones populated with rooms of a
// single tier. Room numbers are built from zone and sequence number,
// zero-padded and concatenated: zone 4, seq 5 → "405".
type ZoneSpec struct {
	Tier         model.Tier
	FirstZone    int
	LastZone     int
	RoomsPerZone int
}

// Catalog is the registry of rooms plus the tier metadata table. Room
// identity and tier are immutable; occupancy and task history mutate behind
// the lock.
type Catalog struct {
	mu    sync.RWMutex
	rooms map[string]*model.Resource
	order []string // room numbers in generation order
	tiers map[model.Tier]model.TierInfo
}

// New generates the room population from specs. Two specs producing the same
// room number is a fatal configuration error; New reports it wrapped in
// model.ErrConfigurationConflict and the caller must not proceed.
func New(specs []ZoneSpec, tiers []model.TierInfo) (*Catalog, error) {
	c := &Catalog{
		rooms: make(map[string]*model.Resource),
		tiers: make(map[model.Tier]model.TierInfo, len(tiers)),
	}
	for _, ti := range tiers {
		if !ti.Tier.Valid() {
			return nil, fmt.Errorf("%w: unknown tier %q", model.ErrConfigurationConflict, ti.Tier)
		}
		if _, dup := c.tiers[ti.Tier]; dup {
			return nil, fmt.Errorf("%w: duplicate metadata for tier %s", model.ErrConfigurationConflict, ti.Tier)
		}
		c.tiers[ti.Tier] = ti
	}

	for _, spec := range specs {
		info, ok := c.tiers[spec.Tier]
		if !ok {
			return nil, fmt.Errorf("%w: zone spec references tier %s with no metadata", model.ErrConfigurationConflict, spec.Tier)
		}
		if spec.FirstZone < 1 || spec.LastZone < spec.FirstZone || spec.RoomsPerZone < 1 {
			return nil, fmt.Errorf("%w: invalid zone spec for tier %s (zones %d-%d, %d rooms)",
				model.ErrConfigurationConflict, spec.Tier, spec.FirstZone, spec.LastZone, spec.RoomsPerZone)
		}
		for zone := spec.FirstZone; zone <= spec.LastZone; zone++ {
			for seq := 1; seq <= spec.RoomsPerZone; seq++ {
				number := fmt.Sprintf("%d%02d", zone, seq)
				if _, dup := c.rooms[number]; dup {
					return nil, fmt.Errorf("%w: room %s generated by more than one zone spec",
						model.ErrConfigurationConflict, number)
				}
				c.rooms[number] = &model.Resource{
					Number:    number,
					Tier:      spec.Tier,
					Zone:      zone,
					Amenities: info.Amenities,
				}
				c.order = append(c.order, number)
			}
		}
	}

	return c, nil
}

// Lookup returns a copy of the room, or model.ErrUnknownResource.
func (c *Catalog) Lookup(number string) (model.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rooms[number]
	if !ok {
		return model.Resource{}, fmt.Errorf("%w: room %s", model.ErrUnknownResource, number)
	}
	return copyResource(r), nil
}

// TierInfo returns the metadata for a tier.
func (c *Catalog) TierInfo(tier model.Tier) (model.TierInfo, bool) {
	info, ok := c.tiers[tier]
	return info, ok
}

// TierTable returns the metadata for all tiers, in rank order.
func (c *Catalog) TierTable() []model.TierInfo {
	out := make([]model.TierInfo, 0, len(c.tiers))
	for _, info := range c.tiers {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// ListByTier returns room numbers of the given tier in generation order.
func (c *Catalog) ListByTier(tier model.Tier) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, number := range c.order {
		if c.rooms[number].Tier == tier {
			out = append(out, number)
		}
	}
	return out
}

// List returns copies of every room in generation order.
func (c *Catalog) List() []model.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Resource, 0, len(c.order))
	for _, number := range c.order {
		out = append(out, copyResource(c.rooms[number]))
	}
	return out
}

// Len returns the number of rooms.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}

// CheckIn marks a room occupied by the named guest. Checking into an
// occupied room is a conflict; the guest must check out first.
func (c *Catalog) CheckIn(number, guest string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rooms[number]
	if !ok {
		return fmt.Errorf("%w: room %s", model.ErrUnknownResource, number)
	}
	if r.Occupied {
		return fmt.Errorf("%w: room %s is occupied by %s", model.ErrConfigurationConflict, number, r.Guest)
	}
	r.Occupied = true
	r.Guest = guest
	return nil
}

// CheckOut marks a room vacant.
func (c *Catalog) CheckOut(number string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rooms[number]
	if !ok {
		return fmt.Errorf("%w: room %s", model.ErrUnknownResource, number)
	}
	r.Occupied = false
	r.Guest = ""
	return nil
}

// AppendHistory records a task ID against the room. The history is append-only
// and owned by the catalog.
func (c *Catalog) AppendHistory(number string, taskID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rooms[number]
	if !ok {
		return fmt.Errorf("%w: room %s", model.ErrUnknownResource, number)
	}
	r.History = append(r.History, taskID)
	return nil
}

// copyResource clones r so callers cannot mutate catalog-internal state.
func copyResource(r *model.Resource) model.Resource {
	out := *r
	out.Amenities = append([]string(nil), r.Amenities...)
	out.History = append([]int64(nil), r.History...)
	return out
}
