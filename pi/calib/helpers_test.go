/*
DESCRIPTION
  helpers_test.go provides a synthetic camera and observation set shared by
  the calib tests.

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
	"image"

	"github.com/golang/geo/r3"
)

// groundTruth is a plausible model for a 1920x1080 camera with mild barrel
// distortion.
var groundTruth = Model{
	RMS: 0.21,
	CameraMatrix: [3][3]float64{
		{1400, 0, 960},
		{0, 1395, 540},
		{0, 0, 1},
	},
	Distortion: []float64{-0.12, 0.05, 0.001, -0.0005, -0.01},
	ImageSize:  image.Pt(1920, 1080),
}

// testPoses are pattern poses, in board square units, that keep a 9x6
// board well inside a 1920x1080 frame.
var testPoses = []Pose{
	{Rotation: r3.Vector{X: 0.1, Y: -0.2, Z: 0.05}, Translation: r3.Vector{X: -4, Y: -2.5, Z: 20}},
	{Rotation: r3.Vector{X: -0.25, Y: 0.1, Z: 0}, Translation: r3.Vector{X: -3.5, Y: -3, Z: 22}},
	{Rotation: r3.Vector{X: 0.3, Y: 0.3, Z: -0.1}, Translation: r3.Vector{X: -5, Y: -2, Z: 25}},
	{Rotation: r3.Vector{X: 0, Y: 0, Z: 0.2}, Translation: r3.Vector{X: -4.5, Y: -3.5, Z: 18}},
}

// syntheticObservations projects a 9x6 pattern through groundTruth for
// each of testPoses.
func syntheticObservations() []Observation {
	pattern := Generate(PatternSpec{Columns: 9, Rows: 6})
	obs := make([]Observation, len(testPoses))
	for i, p := range testPoses {
		obs[i] = Observation{Pattern: pattern, Pixels: Project(pattern, p, groundTruth)}
	}
	return obs
}
