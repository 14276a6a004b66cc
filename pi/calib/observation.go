/*
DESCRIPTION
  observation.go provides the Accumulator type, which collects matched
  pattern and pixel point sets across calibration images.

AUTHORS
  AusOcean developers

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean)

  It is free software: you can redistribute it and/or modify them
  under the terms of the GNU General Public License as published by the
  Free Software Foundation, either version 3 of the License, or (at your
  option) any later version.

  It is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
  FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License
  for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt.  If not, see http://www.gnu.org/licenses.
*/

package calib

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Observation holds the pattern points of one image and the pixel points at
// which they were detected, in the same order.
type Observation struct {
	Pattern []r3.Vector
	Pixels  []r2.Point
}

// Accumulator collects observations from successfully processed images.
// It has a single writer; the slice returned by Observations is shared with
// readers and must not be modified.
type Accumulator struct {
	obs []Observation
}

// NewAccumulator returns a new Accumulator with capacity for n observations.
func NewAccumulator(n int) *Accumulator {
	if n < 0 {
		n = 0
	}
	return &Accumulator{obs: make([]Observation, 0, n)}
}

// Add appends an observation. The number of pixel points must match the
// number of pattern points, otherwise ErrMalformedObservation is returned.
func (a *Accumulator) Add(pattern []r3.Vector, pixels []r2.Point) error {
	if len(pattern) == 0 || len(pixels) != len(pattern) {
		return fmt.Errorf("%w: %d pixel points for %d pattern points", ErrMalformedObservation, len(pixels), len(pattern))
	}
	a.obs = append(a.obs, Observation{Pattern: pattern, Pixels: pixels})
	return nil
}

// Observations returns the accumulated observations in insertion order.
func (a *Accumulator) Observations() []Observation {
	return a.obs[:len(a.obs):len(a.obs)]
}

// Len returns the number of accumulated observations.
func (a *Accumulator) Len() int { return len(a.obs) }
