package plugins

import (
	"fmt"
	"sync"
)

// RegistrationSource is the in-process Source implementation: plugins
// register descriptors imperatively (typically from init functions or
// a composition root) and discovery enumerates them in registration
// order. It is safe for concurrent use.
//
// Duplicate names are accepted here on purpose; conflict resolution is
// the Loader's job so that one discovery pass sees the full picture.
type RegistrationSource struct {
	mu          sync.Mutex
	descriptors map[Kind][]Descriptor
}

// NewRegistrationSource creates an empty registration source.
func NewRegistrationSource() *RegistrationSource {
	return &RegistrationSource{
		descriptors: make(map[Kind][]Descriptor),
	}
}

// Register adds a descriptor under its Kind. It fails on descriptors
// that could never be instantiated: empty name, empty kind, or nil
// factory.
func (s *RegistrationSource) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("cannot register plugin with empty name")
	}
	if d.Kind == "" {
		return fmt.Errorf("cannot register plugin %q with empty kind", d.Name)
	}
	if d.New == nil {
		return fmt.Errorf("cannot register plugin %q with nil factory", d.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.descriptors[d.Kind] = append(s.descriptors[d.Kind], d)
	return nil
}

// MustRegister is Register but panics on error. Intended for init-time
// registration where a bad descriptor is a programming error.
func (s *RegistrationSource) MustRegister(d Descriptor) {
	if err := s.Register(d); err != nil {
		panic(err)
	}
}

// Enumerate returns a copy of the descriptors registered under the
// namespace, in registration order.
func (s *RegistrationSource) Enumerate(namespace Kind) []Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()

	registered := s.descriptors[namespace]
	out := make([]Descriptor, len(registered))
	copy(out, registered)
	return out
}
