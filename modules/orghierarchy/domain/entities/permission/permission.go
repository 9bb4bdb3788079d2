package permission

import (
	"github.com/google/uuid"
)

type Resource string

type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionReplace Action = "replace"
)

// Permission is a named capability. Names are stable identifiers;
// everything else is descriptive.
type Permission struct {
	ID       uuid.UUID
	Name     string
	Resource Resource
	Action   Action
}

// Set is an unordered collection of permission names.
type Set map[string]struct{}

func NewSet(perms ...*Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s.Add(p)
	}
	return s
}

func (s Set) Add(p *Permission) {
	if p != nil {
		s[p.Name] = struct{}{}
	}
}

func (s Set) Has(p *Permission) bool {
	if p == nil {
		return false
	}
	_, ok := s[p.Name]
	return ok
}

func (s Set) HasName(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set containing the members of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for name := range s {
		out[name] = struct{}{}
	}
	for name := range other {
		out[name] = struct{}{}
	}
	return out
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for name := range s {
		out[name] = struct{}{}
	}
	return out
}
