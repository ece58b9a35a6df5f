package renderer

import (
	"fmt"
	"strings"
)

// HitPolicy decides which entity colors a pixel when several entities intersect its ray
type HitPolicy int

const (
	// NearestHit colors the pixel with the entity closest along the ray
	NearestHit HitPolicy = iota
	// FirstHit colors the pixel with the first intersecting entity in registry order
	FirstHit
	// LastHit colors the pixel with the last intersecting entity in registry order
	LastHit
)

// String returns the policy name accepted by ParseHitPolicy
func (p HitPolicy) String() string {
	switch p {
	case NearestHit:
		return "nearest"
	case FirstHit:
		return "first"
	case LastHit:
		return "last"
	default:
		return fmt.Sprintf("HitPolicy(%d)", int(p))
	}
}

// Next cycles through the policies in declaration order
func (p HitPolicy) Next() HitPolicy {
	return (p + 1) % (LastHit + 1)
}

// ParseHitPolicy parses a policy name. The empty string selects NearestHit.
func ParseHitPolicy(name string) (HitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "nearest":
		return NearestHit, nil
	case "first":
		return FirstHit, nil
	case "last":
		return LastHit, nil
	default:
		return NearestHit, fmt.Errorf("unknown hit policy %q (want nearest, first or last)", name)
	}
}
