// surplus.go: Holding area for parameters nobody declared
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

// SurplusRegistry owns parameters created on the fly, typically for
// configuration file entries that match no declared parameter. Keeping
// them around lets tools report or re-export unknown settings.
type SurplusRegistry struct {
	*Registry
}

// NewSurplusRegistry creates an empty surplus registry.
func NewSurplusRegistry() *SurplusRegistry {
	return &SurplusRegistry{Registry: NewOwningRegistry("surplus")}
}

// AddInt declares an integer parameter owned by the surplus registry.
func (s *SurplusRegistry) AddInt(name string, value int32, info string, opts ...Option) *IntParam {
	return NewIntParam(s.Registry, name, value, info, opts...)
}

// AddBool declares a boolean parameter owned by the surplus registry.
func (s *SurplusRegistry) AddBool(name string, value bool, info string, opts ...Option) *BoolParam {
	return NewBoolParam(s.Registry, name, value, info, opts...)
}

// AddDouble declares a floating point parameter owned by the surplus registry.
func (s *SurplusRegistry) AddDouble(name string, value float64, info string, opts ...Option) *DoubleParam {
	return NewDoubleParam(s.Registry, name, value, info, opts...)
}

// AddString declares a string parameter owned by the surplus registry.
func (s *SurplusRegistry) AddString(name string, value string, info string, opts ...Option) *StringParam {
	return NewStringParam(s.Registry, name, value, info, opts...)
}

// AddIntSet declares an integer list parameter owned by the surplus registry.
func (s *SurplusRegistry) AddIntSet(name string, value []int32, info string, opts ...Option) *IntSetParam {
	return NewIntSetParam(s.Registry, name, value, info, opts...)
}

// AddBoolSet declares a boolean list parameter owned by the surplus registry.
func (s *SurplusRegistry) AddBoolSet(name string, value []bool, info string, opts ...Option) *BoolSetParam {
	return NewBoolSetParam(s.Registry, name, value, info, opts...)
}

// AddDoubleSet declares a floating point list parameter owned by the surplus registry.
func (s *SurplusRegistry) AddDoubleSet(name string, value []float64, info string, opts ...Option) *DoubleSetParam {
	return NewDoubleSetParam(s.Registry, name, value, info, opts...)
}

// AddStringSet declares a string list parameter owned by the surplus registry.
func (s *SurplusRegistry) AddStringSet(name string, value []string, info string, opts ...Option) *StringSetParam {
	return NewStringSetParam(s.Registry, name, value, info, opts...)
}
