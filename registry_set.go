// registry_set.go: Layered lookup across registries
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"strings"
)

// RegistrySet is an ordered list of registries searched front to back.
// Earlier layers shadow later ones, so a set built as
// (local, global) lets a component override application-wide settings.
// The set references its registries and never owns them.
type RegistrySet struct {
	layers []*Registry
}

// NewRegistrySet builds a set from the given registries in order.
// Nil entries are skipped.
func NewRegistrySet(registries ...*Registry) *RegistrySet {
	s := &RegistrySet{}
	for _, r := range registries {
		s.Add(r)
	}
	return s
}

// Add appends r as the lowest-priority layer. Nil registries and registries
// already in the set are ignored.
func (s *RegistrySet) Add(r *Registry) *RegistrySet {
	if r == nil {
		return s
	}
	for _, existing := range s.layers {
		if existing == r {
			return s
		}
	}
	s.layers = append(s.layers, r)
	return s
}

// AddSet appends every layer of other.
func (s *RegistrySet) AddSet(other *RegistrySet) *RegistrySet {
	if other == nil {
		return s
	}
	for _, r := range other.layers {
		s.Add(r)
	}
	return s
}

// Registries returns the layers in lookup order.
func (s *RegistrySet) Registries() []*Registry {
	if s == nil {
		return nil
	}
	out := make([]*Registry, len(s.layers))
	copy(out, s.layers)
	return out
}

// Len returns the number of layers.
func (s *RegistrySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Find returns the first parameter called name whose type intersects mask.
func (s *RegistrySet) Find(name string, mask ParamType) Param {
	return s.findWhere(name, func(p Param) bool { return p.Type().Matches(mask) })
}

func (s *RegistrySet) findWhere(name string, match func(Param) bool) Param {
	if s == nil {
		return nil
	}
	for _, r := range s.layers {
		if p := r.findWhere(name, match); p != nil {
			return p
		}
	}
	return nil
}

// findOther is Find skipping exclude, used to locate a layered twin.
func (s *RegistrySet) findOther(name string, mask ParamType, exclude Param) Param {
	return s.findWhere(name, func(p Param) bool {
		return p.Type().Matches(mask) && !sameParam(p, exclude)
	})
}

// List returns the parameters of every layer whose type intersects mask,
// in layer order.
func (s *RegistrySet) List(mask ParamType) []Param {
	if s == nil {
		return nil
	}
	var out []Param
	for _, r := range s.layers {
		out = append(out, r.List(mask)...)
	}
	return out
}

// FlattenedCopy merges every layer into a single non-owning registry,
// keeping parameters whose type intersects mask. The copy references the
// same parameters. A name appearing in more than one layer is a collision
// and yields an ErrCodeNameCollision error.
func (s *RegistrySet) FlattenedCopy(mask ParamType) (*Registry, error) {
	titles := make([]string, 0, s.Len())
	for _, r := range s.layers {
		if t := r.Title(); t != "" {
			titles = append(titles, t)
		}
	}
	flat := NewRegistry(strings.Join(titles, " + "))
	for _, p := range s.List(mask) {
		if err := flat.Add(p); err != nil {
			return nil, err
		}
	}
	return flat, nil
}
