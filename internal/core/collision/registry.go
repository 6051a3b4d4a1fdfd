package collision

import (
	"slices"
	"sort"
)

// Registry maps group names to ordered member lists; the broad phase of every query.
//
// Registry is not safe for concurrent use. Removals copy the member list, so
// Unregister and Cleanup may be called from inside a collision callback while
// a sweep over the same group is running.
type Registry struct {
	groups map[string][]track
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string][]track)}
}

// Register appends c to the named group, creating the group if needed.
// Registering the same collider twice is tolerated and yields two records.
func (r *Registry) Register(group string, c Collider) error {
	if c == nil {
		return ErrNilCollider
	}
	r.groups[group] = append(r.groups[group], newTrack(c))
	return nil
}

// Unregister removes the first record of c from the group.
// It reports whether a record was removed; absent groups or members are a no-op.
func (r *Registry) Unregister(group string, c Collider) bool {
	members, ok := r.groups[group]
	if !ok {
		return false
	}
	i := slices.IndexFunc(members, func(t track) bool { return t.c == c })
	if i < 0 {
		return false
	}
	next := make([]track, 0, len(members)-1)
	next = append(next, members[:i]...)
	next = append(next, members[i+1:]...)
	r.groups[group] = next
	return true
}

// Cleanup drops inactive members from every group, preserving relative order,
// and returns the number of records dropped. Empty groups stay registered.
func (r *Registry) Cleanup() int {
	dropped := 0
	for name, members := range r.groups {
		next := make([]track, 0, len(members))
		for _, t := range members {
			if t.c.Active() {
				next = append(next, t)
			}
		}
		dropped += len(members) - len(next)
		r.groups[name] = next
	}
	return dropped
}

// Members returns a snapshot of the group in registration order, inactive members included.
func (r *Registry) Members(group string) []Collider {
	members := r.groups[group]
	out := make([]Collider, len(members))
	for i, t := range members {
		out[i] = t.c
	}
	return out
}

// Len returns the number of membership records in the group.
func (r *Registry) Len(group string) int { return len(r.groups[group]) }

// Has reports whether the group has been created.
func (r *Registry) Has(group string) bool {
	_, ok := r.groups[group]
	return ok
}

// Groups returns all group names in sorted order.
func (r *Registry) Groups() []string {
	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) tracks(group string) []track {
	return r.groups[group]
}
