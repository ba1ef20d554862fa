// Package session tracks which scoreboard objectives, teams and boss bars
// a client currently knows about.
package session

import (
	"go.minekube.com/tabgate/pkg/edition/java/canonical"
	"go.minekube.com/tabgate/pkg/util/errs"
	"go.minekube.com/tabgate/pkg/util/sets"
)

// State is the registration state of one connection.
//
// A resource is either registered or not. Registering a registered resource
// fails with errs.ErrDuplicateRegistration and using or unregistering an
// unknown one with errs.ErrUnknownResource.
//
// State is not safe for concurrent use, it is owned by its connection.
type State struct {
	key        func(canonical.Resource) canonical.Resource
	registered map[canonical.Kind]sets.Set[string]
}

// New returns an empty State identifying resources by their canonical name.
func New() *State {
	return NewKeyed(nil)
}

// NewKeyed returns an empty State identifying resources by key.
// The key is the resource as the client sees it: two canonical names
// the client cannot tell apart, e.g. after truncation, are the same resource.
// A nil key identifies resources by their canonical name.
func NewKeyed(key func(canonical.Resource) canonical.Resource) *State {
	s := &State{key: key}
	s.Reset()
	return s
}

func (s *State) resource(res canonical.Resource) canonical.Resource {
	if s.key == nil {
		return res
	}
	return s.key(res)
}

// Check reports whether p is valid in the current state without changing it.
// The returned error is an *errs.ResourceError.
func (s *State) Check(p canonical.Packet) error {
	res := p.Resource()
	key := s.resource(res)
	has := s.set(key.Kind).Has(key.Name)
	var err error
	switch p.Op() {
	case canonical.Register:
		if has {
			err = errs.ErrDuplicateRegistration
		}
	case canonical.Unregister, canonical.Use:
		if !has {
			err = errs.ErrUnknownResource
		}
	}
	if err != nil {
		return &errs.ResourceError{Kind: string(res.Kind), Name: res.Name, Err: err}
	}
	return nil
}

// Commit applies the transition of p. It must only be called after
// Check succeeded and the packet was built.
func (s *State) Commit(p canonical.Packet) {
	res := s.resource(p.Resource())
	switch p.Op() {
	case canonical.Register:
		s.set(res.Kind).Insert(res.Name)
	case canonical.Unregister:
		s.set(res.Kind).Delete(res.Name)
	}
}

// Reset forgets all resources. The client dropped them already,
// so no unregister packets are needed.
func (s *State) Reset() {
	s.registered = map[canonical.Kind]sets.Set[string]{
		canonical.ObjectiveKind: sets.New[string](),
		canonical.TeamKind:      sets.New[string](),
		canonical.BossBarKind:   sets.New[string](),
	}
}

// Registered reports whether the resource is registered.
func (s *State) Registered(res canonical.Resource) bool {
	res = s.resource(res)
	return s.set(res.Kind).Has(res.Name)
}

// Names returns the sorted keys of registered resources of kind.
func (s *State) Names(kind canonical.Kind) []string {
	return sets.Sorted(s.set(kind))
}

func (s *State) set(kind canonical.Kind) sets.Set[string] {
	set, ok := s.registered[kind]
	if !ok {
		set = sets.New[string]()
		s.registered[kind] = set
	}
	return set
}
