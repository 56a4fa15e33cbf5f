package model

import "fmt"

// Policy names the ordering function applied to pending tasks.
type Policy string

const (
	PolicyFCFS             Policy = "FCFS"
	PolicyPriority         Policy = "Priority"
	PolicyShortestJobFirst Policy = "ShortestJobFirst"

	// PolicyRoundRobin orders identically to Priority. The time quantum is
	// bookkeeping only and is never applied to reordering or preemption;
	// the name is kept for compatibility with the original system.
	PolicyRoundRobin Policy = "RoundRobin"
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	return string(p)
}

// Valid reports whether p is one of the four known policies.
func (p Policy) Valid() bool {
	switch p {
	case PolicyFCFS, PolicyPriority, PolicyShortestJobFirst, PolicyRoundRobin:
		return true
	}
	return false
}

// Describe returns the human-readable description of the policy.
func (p Policy) Describe() string {
	switch p {
	case PolicyFCFS:
		return "First-Come, First-Served: requests are handled in arrival order, regardless of tier."
	case PolicyPriority:
		return "Requests are ordered by tier rank (Tier-A before Tier-B before Tier-C); earlier requests first within a tier."
	case PolicyShortestJobFirst:
		return "Requests with the shortest estimated time are served first; ties resolve by tier rank, then arrival."
	case PolicyRoundRobin:
		return "Orders identically to Priority; the time quantum is informational and does not affect dispatch."
	}
	return ""
}

// ParsePolicy validates and converts a policy name.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown policy %q (want FCFS, Priority, ShortestJobFirst, or RoundRobin)", s)
	}
	return p, nil
}

// Policies lists all selectable policies.
func Policies() []Policy {
	return []Policy{PolicyFCFS, PolicyPriority, PolicyShortestJobFirst, PolicyRoundRobin}
}
