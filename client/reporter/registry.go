package reporter

import (
	"fmt"
	"sort"
)

var registry = make(Registry)

type Registry map[string]func() Reporter

func (r Registry) register(name string, ctr func() Reporter) error {
	if _, present := r[name]; present {
		return fmt.Errorf("Reporter already registered: %s", name)
	}
	r[name] = ctr
	return nil
}

func (r Registry) create(name string) (Reporter, error) {
	ctr, present := r[name]
	if present {
		return ctr(), nil
	}
	return nil, fmt.Errorf("Reporter not found: %s (known: %v)", name, r.names())
}

func (r Registry) names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Register(name string, ctr func() Reporter) error {
	return registry.register(name, ctr)
}

func Create(name string) (Reporter, error) {
	return registry.create(name)
}
