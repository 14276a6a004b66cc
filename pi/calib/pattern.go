/*
DESCRIPTION
  pattern.go provides the checkerboard pattern description and generation of
  the pattern's corner coordinates in its own reference frame.

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

// Package calib provides the camera calibration pipeline: checkerboard
// pattern generation, accumulation of corner observations across images,
// invocation of a calibration solver, reprojection error evaluation and
// persistence of the resulting camera model.
package calib

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// dimsSep separates the two parts of a dimension string, e.g. "9x6".
const dimsSep = "x"

// PatternSpec describes a checkerboard by its interior corner counts.
type PatternSpec struct {
	Columns int
	Rows    int
}

// Validate checks that the pattern has at least two corners in each direction.
func (s PatternSpec) Validate() error {
	if s.Columns < 2 || s.Rows < 2 {
		return fmt.Errorf("%w: pattern must be at least 2x2, got %v", ErrUsage, s)
	}
	return nil
}

// Len returns the number of interior corners in the pattern.
func (s PatternSpec) Len() int { return s.Columns * s.Rows }

// String implements fmt.Stringer using the same form accepted by ParsePatternSpec.
func (s PatternSpec) String() string { return fmt.Sprintf("%dx%d", s.Columns, s.Rows) }

// ParsePatternSpec parses a board spec of the form "<columns>x<rows>".
func ParsePatternSpec(s string) (PatternSpec, error) {
	c, r, err := ParseDims(s)
	if err != nil {
		return PatternSpec{}, err
	}
	spec := PatternSpec{Columns: c, Rows: r}
	return spec, spec.Validate()
}

// ParseDims parses a string of the form "<a>x<b>", as used for board specs and
// resolutions. A missing separator or non-integer part gives an ErrUsage.
func ParseDims(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), dimsSep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: specify dimensions with x as WxH (e.g. 9x6), got %q", ErrUsage, s)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad width in %q: %v", ErrUsage, s, err)
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad height in %q: %v", ErrUsage, s, err)
	}
	return a, b, nil
}

// Generate returns the corner coordinates of an idealised flat pattern in
// row-major order, i.e. (c, r, 0) for every row r and column c. This order
// must match the scan order of the corner detector.
func Generate(spec PatternSpec) []r3.Vector {
	pts := make([]r3.Vector, 0, spec.Len())
	for r := 0; r < spec.Rows; r++ {
		for c := 0; c < spec.Columns; c++ {
			pts = append(pts, r3.Vector{X: float64(c), Y: float64(r), Z: 0})
		}
	}
	return pts
}
