// accounting.go: Per-parameter access counters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import "math"

// AccessCounts holds the usage tallies of a parameter.
//
// The current-period counters track activity since the last call to
// ResetAccessCounts; the PrevSum counters accumulate every folded period.
// All counters saturate at their maximum instead of wrapping.
type AccessCounts struct {
	Reading  uint32 `json:"reading" yaml:"reading"`
	Writing  uint32 `json:"writing" yaml:"writing"`
	Changing uint32 `json:"changing" yaml:"changing"`
	Faulting uint32 `json:"faulting" yaml:"faulting"`

	PrevSumReading  uint64 `json:"prev_sum_reading" yaml:"prev_sum_reading"`
	PrevSumWriting  uint64 `json:"prev_sum_writing" yaml:"prev_sum_writing"`
	PrevSumChanging uint64 `json:"prev_sum_changing" yaml:"prev_sum_changing"`
	PrevSumFaulting uint64 `json:"prev_sum_faulting" yaml:"prev_sum_faulting"`
}

// fold moves the current period into the cumulative tallies.
func (c *AccessCounts) fold() {
	c.PrevSumReading = safeAdd(c.PrevSumReading, uint64(c.Reading))
	c.PrevSumWriting = safeAdd(c.PrevSumWriting, uint64(c.Writing))
	c.PrevSumChanging = safeAdd(c.PrevSumChanging, uint64(c.Changing))
	c.PrevSumFaulting = safeAdd(c.PrevSumFaulting, uint64(c.Faulting))
	c.Reading = 0
	c.Writing = 0
	c.Changing = 0
	c.Faulting = 0
}

// TotalReading returns current plus cumulative reads.
func (c AccessCounts) TotalReading() uint64 {
	return safeAdd(c.PrevSumReading, uint64(c.Reading))
}

// TotalWriting returns current plus cumulative writes.
func (c AccessCounts) TotalWriting() uint64 {
	return safeAdd(c.PrevSumWriting, uint64(c.Writing))
}

func safeInc(v *uint32) {
	if *v < math.MaxUint32 {
		*v++
	}
}

func safeAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
