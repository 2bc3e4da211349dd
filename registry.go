// registry.go: Named, hash indexed parameter collections
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"fmt"
	"time"

	"github.com/agilira/go-errors"
)

// ChangeEvent describes a committed parameter value change.
type ChangeEvent struct {
	Param    Param
	OldValue string
	NewValue string
	Source   SourceType
	Setter   Param
	Time     time.Time
}

// ChangeListener observes committed changes of the parameters declared in
// a registry.
type ChangeListener interface {
	ParamChanged(ev ChangeEvent)
}

// ChangeListenerFunc adapts a function to ChangeListener.
type ChangeListenerFunc func(ev ChangeEvent)

// ParamChanged calls f(ev).
func (f ChangeListenerFunc) ParamChanged(ev ChangeEvent) { f(ev) }

// Finder is implemented by Registry and RegistrySet.
type Finder interface {
	Find(name string, mask ParamType) Param
	List(mask ParamType) []Param

	findWhere(name string, match func(Param) bool) Param
}

// Registry is a collection of uniquely named parameters.
//
// A registry either references parameters that live elsewhere or owns the
// parameters declared in it; the mode is fixed at construction. Owning
// registries release their parameters on Close.
type Registry struct {
	title    string
	owning   bool
	buckets  map[uint32][]Param
	order    []Param
	listener ChangeListener
}

// NewRegistry creates a registry that references its parameters.
func NewRegistry(title string) *Registry {
	return &Registry{
		title:   title,
		buckets: make(map[uint32][]Param),
	}
}

// NewOwningRegistry creates a registry that owns the parameters declared in it.
func NewOwningRegistry(title string) *Registry {
	r := NewRegistry(title)
	r.owning = true
	return r
}

// Title returns the registry title.
func (r *Registry) Title() string {
	if r == nil {
		return ""
	}
	return r.title
}

// ChangeTitle renames the registry.
func (r *Registry) ChangeTitle(title string) {
	r.title = title
}

// Owns reports whether the registry owns its parameters.
func (r *Registry) Owns() bool { return r.owning }

// Len returns the number of parameters.
func (r *Registry) Len() int { return len(r.order) }

// Add inserts p. A name that collides with an existing entry, ignoring case
// and dash versus underscore, is rejected with ErrCodeNameCollision.
func (r *Registry) Add(p Param) error {
	if p == nil {
		return errors.New(ErrCodeInvalidConfig, "cannot add a nil parameter").
			WithContext("registry", r.title)
	}
	name := p.Name()
	h := NameHash(name)
	for _, existing := range r.buckets[h] {
		if NamesEqual(existing.Name(), name) {
			return errors.New(ErrCodeNameCollision,
				fmt.Sprintf("%s param name '%s' collision: double definition of param '%s'", ApplicationName(), name, name)).
				WithContext("registry", r.title).
				WithContext("existing", existing.Name())
		}
	}
	r.buckets[h] = append(r.buckets[h], p)
	r.order = append(r.order, p)
	return nil
}

// MustAdd is like Add but panics on a name collision. Declaring two
// parameters with the same name is a programming error.
func (r *Registry) MustAdd(p Param) {
	if err := r.Add(p); err != nil {
		panic(err)
	}
}

// Remove takes p out of the registry. It reports whether p was present.
func (r *Registry) Remove(p Param) bool {
	if p == nil {
		return false
	}
	h := NameHash(p.Name())
	bucket := r.buckets[h]
	for i, existing := range bucket {
		if sameParam(existing, p) {
			r.dropAt(h, i)
			return true
		}
	}
	return false
}

// RemoveByName takes the parameter called name out of the registry.
// It reports whether such a parameter was present.
func (r *Registry) RemoveByName(name string) bool {
	h := NameHash(name)
	for i, existing := range r.buckets[h] {
		if NamesEqual(existing.Name(), name) {
			r.dropAt(h, i)
			return true
		}
	}
	return false
}

func (r *Registry) dropAt(h uint32, i int) {
	bucket := r.buckets[h]
	p := bucket[i]
	bucket = append(bucket[:i:i], bucket[i+1:]...)
	if len(bucket) == 0 {
		delete(r.buckets, h)
	} else {
		r.buckets[h] = bucket
	}
	for j, q := range r.order {
		if sameParam(q, p) {
			r.order = append(r.order[:j:j], r.order[j+1:]...)
			break
		}
	}
}

// Find returns the parameter called name whose type intersects mask, or nil.
func (r *Registry) Find(name string, mask ParamType) Param {
	return r.findWhere(name, func(p Param) bool { return p.Type().Matches(mask) })
}

func (r *Registry) findWhere(name string, match func(Param) bool) Param {
	for _, p := range r.buckets[NameHash(name)] {
		if NamesEqual(p.Name(), name) && match(p) {
			return p
		}
	}
	return nil
}

// List returns the parameters whose type intersects mask. The order is
// unspecified; callers that need a stable order must sort.
func (r *Registry) List(mask ParamType) []Param {
	out := make([]Param, 0, len(r.order))
	for _, p := range r.order {
		if p.Type().Matches(mask) {
			out = append(out, p)
		}
	}
	return out
}

// SetChangeListener installs l as observer of committed changes to the
// parameters declared in r, returning the previous listener.
func (r *Registry) SetChangeListener(l ChangeListener) ChangeListener {
	prev := r.listener
	r.listener = l
	return prev
}

// Close empties the registry. An owning registry also releases its
// parameters, which stop reporting it as their owner.
func (r *Registry) Close() {
	if r.owning {
		for _, p := range r.order {
			if b := p.core(); b.owner == r {
				b.owner = nil
			}
		}
	}
	r.buckets = make(map[uint32][]Param)
	r.order = nil
}

// FindTyped returns the parameter called name when it is a *Typed[T, A].
// In a RegistrySet the first layer holding a matching parameter wins.
func FindTyped[T, A any](f Finder, name string) *Typed[T, A] {
	p := f.findWhere(name, func(p Param) bool {
		_, ok := p.(*Typed[T, A])
		return ok
	})
	if p == nil {
		return nil
	}
	return p.(*Typed[T, A])
}

// FindIntParam returns the integer parameter called name, or nil.
func FindIntParam(f Finder, name string) *IntParam {
	return FindTyped[int32, ValueAssistant](f, name)
}

// FindBoolParam returns the boolean parameter called name, or nil.
func FindBoolParam(f Finder, name string) *BoolParam {
	return FindTyped[bool, ValueAssistant](f, name)
}

// FindDoubleParam returns the floating point parameter called name, or nil.
func FindDoubleParam(f Finder, name string) *DoubleParam {
	return FindTyped[float64, ValueAssistant](f, name)
}

// FindStringParam returns the string parameter called name, or nil.
func FindStringParam(f Finder, name string) *StringParam {
	return FindTyped[string, StringAssistant](f, name)
}

// FindIntSetParam returns the integer list parameter called name, or nil.
func FindIntSetParam(f Finder, name string) *IntSetParam {
	return FindTyped[[]int32, VectorAssistant](f, name)
}

// FindBoolSetParam returns the boolean list parameter called name, or nil.
func FindBoolSetParam(f Finder, name string) *BoolSetParam {
	return FindTyped[[]bool, VectorAssistant](f, name)
}

// FindDoubleSetParam returns the floating point list parameter called name, or nil.
func FindDoubleSetParam(f Finder, name string) *DoubleSetParam {
	return FindTyped[[]float64, VectorAssistant](f, name)
}

// FindStringSetParam returns the string list parameter called name, or nil.
func FindStringSetParam(f Finder, name string) *StringSetParam {
	return FindTyped[[]string, VectorAssistant](f, name)
}
