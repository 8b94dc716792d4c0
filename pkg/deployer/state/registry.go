package state

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// MissingComponentsError names components that were referenced before they
// were deployed.
type MissingComponentsError struct {
	Names []string
}

func (e *MissingComponentsError) Error() string {
	return fmt.Sprintf("components not deployed: %s", strings.Join(e.Names, ", "))
}

// AddressRegistry accumulates deployed components in insertion order. Entries
// are never removed or replaced during a run.
type AddressRegistry struct {
	order   []string
	entries map[string]*DeployedComponent
}

func NewAddressRegistry() *AddressRegistry {
	return &AddressRegistry{
		entries: make(map[string]*DeployedComponent),
	}
}

func (r *AddressRegistry) Put(c DeployedComponent) error {
	if c.Name == "" {
		return fmt.Errorf("component has no name")
	}
	if c.Address == (common.Address{}) {
		return fmt.Errorf("component %s has no address", c.Name)
	}
	if _, ok := r.entries[c.Name]; ok {
		return fmt.Errorf("component %s already registered", c.Name)
	}
	r.order = append(r.order, c.Name)
	r.entries[c.Name] = &c
	return nil
}

func (r *AddressRegistry) Get(name string) (DeployedComponent, bool) {
	c, ok := r.entries[name]
	if !ok {
		return DeployedComponent{}, false
	}
	return *c, true
}

func (r *AddressRegistry) Address(name string) (common.Address, error) {
	c, ok := r.entries[name]
	if !ok {
		return common.Address{}, &MissingComponentsError{Names: []string{name}}
	}
	return c.Address, nil
}

// Require fails naming every absent component.
func (r *AddressRegistry) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := r.entries[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingComponentsError{Names: missing}
	}
	return nil
}

// Resolve returns the addresses of the named components.
func (r *AddressRegistry) Resolve(names ...string) (map[string]common.Address, error) {
	if err := r.Require(names...); err != nil {
		return nil, err
	}
	out := make(map[string]common.Address, len(names))
	for _, name := range names {
		out[name] = r.entries[name].Address
	}
	return out, nil
}

// MarkInitialized records a completed late initialization.
func (r *AddressRegistry) MarkInitialized(name string) error {
	c, ok := r.entries[name]
	if !ok {
		return &MissingComponentsError{Names: []string{name}}
	}
	c.Initialized = true
	return nil
}

// Entries returns a copy of every component in insertion order.
func (r *AddressRegistry) Entries() []DeployedComponent {
	out := make([]DeployedComponent, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.entries[name])
	}
	return out
}

func (r *AddressRegistry) Len() int {
	return len(r.order)
}
