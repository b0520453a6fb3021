package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/item-piles/internal/storage"
)

var ErrUnknownSystem = errors.New("unknown game system")

// Registry holds the system profiles keyed by game system identifier.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates a registry seeded with the built-in profiles.
func NewRegistry() *Registry {
	return &Registry{profiles: Builtins()}
}

// Register validates p and stores it under system, replacing any existing
// profile for that system.
func (r *Registry) Register(system string, p *Profile) error {
	system = strings.TrimSpace(system)
	if system == "" {
		return fmt.Errorf("system identifier is required")
	}
	if p == nil {
		return fmt.Errorf("profile %q is nil", system)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", system, err)
	}
	r.profiles[system] = p
	return nil
}

// Load registers every profile held by st. Asset identifiers are the
// game system identifiers.
func (r *Registry) Load(st storage.Storer[*Profile]) error {
	for id, p := range st.GetAll() {
		if err := r.Register(id.String(), p); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the profile for system.
func (r *Registry) Get(system string) (*Profile, error) {
	p, ok := r.profiles[strings.TrimSpace(system)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, system)
	}
	return p, nil
}

// Systems returns the registered system identifiers in sorted order.
func (r *Registry) Systems() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
