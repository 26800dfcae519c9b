package overlay

import (
	"log"

	"github.com/paulmach/orb"

	"github.com/aldo-g/earliest-elephant/geo"
	"github.com/aldo-g/earliest-elephant/typedef"
)

// RegionSet is the static aggregate configuration with a member -> region reverse lookup.
// An entity claimed by more than one region belongs to the first one in configuration order.
type RegionSet struct {
	regions  []typedef.Region
	byKey    map[string]int
	memberOf map[string]string
}

// NewRegionSet indexes regions in order. Regions without a key and repeated keys are skipped.
func NewRegionSet(regions []typedef.Region) *RegionSet {
	rs := &RegionSet{
		byKey:    make(map[string]int, len(regions)),
		memberOf: make(map[string]string),
	}
	for _, r := range regions {
		if err := r.Validate(); err != nil {
			log.Printf("[OVERLAY] Skipping region: %v", err)
			continue
		}
		if _, dup := rs.byKey[r.Key]; dup {
			log.Printf("[OVERLAY] Region %q configured twice, keeping the first definition", r.Key)
			continue
		}
		rs.byKey[r.Key] = len(rs.regions)
		rs.regions = append(rs.regions, r)
		for _, id := range r.Members {
			if owner, taken := rs.memberOf[id]; taken {
				if owner != r.Key {
					log.Printf("[OVERLAY] Entity %s already belongs to %s, ignoring claim by %s", id, owner, r.Key)
				}
				continue
			}
			rs.memberOf[id] = r.Key
		}
	}
	return rs
}

// RegionOf returns the key of the region the entity belongs to.
func (rs *RegionSet) RegionOf(id string) (string, bool) {
	if rs == nil {
		return "", false
	}
	key, ok := rs.memberOf[id]
	return key, ok
}

// Region looks up a region by key.
func (rs *RegionSet) Region(key string) (typedef.Region, bool) {
	if rs == nil {
		return typedef.Region{}, false
	}
	i, ok := rs.byKey[key]
	if !ok {
		return typedef.Region{}, false
	}
	return rs.regions[i], true
}

// Regions returns the regions in configuration order.
func (rs *RegionSet) Regions() []typedef.Region {
	if rs == nil {
		return nil
	}
	out := make([]typedef.Region, len(rs.regions))
	copy(out, rs.regions)
	return out
}

// Members returns the projected shapes owned by the region, in dataset order.
// Configured members that are missing from the boundary dataset are simply absent.
func (rs *RegionSet) Members(key string, shapes []geo.ProjectedShape) []geo.ProjectedShape {
	var out []geo.ProjectedShape
	for _, s := range shapes {
		if owner, ok := rs.RegionOf(s.ID); ok && owner == key {
			out = append(out, s)
		}
	}
	return out
}

// Bound is the union of the member bounds, the same box a geometry collection of the members has.
func (rs *RegionSet) Bound(key string, shapes []geo.ProjectedShape) orb.Bound {
	return geo.UnionBounds(rs.Members(key, shapes))
}
