/*
DESCRIPTION
  model.go provides the Model type, holding the fitted intrinsic parameters
  of a camera, and the Pose type holding a per-image extrinsic estimate.

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
	"gonum.org/v1/gonum/mat"
)

// Pose is the position of the pattern relative to the camera for one image.
// Rotation is a Rodrigues rotation vector.
type Pose struct {
	Rotation    r3.Vector
	Translation r3.Vector
}

// Model is a fitted camera model. It is a value type; use Clone to obtain an
// independent copy.
type Model struct {
	RMS               float64       // Solver residual (the "ret" value).
	CameraMatrix      [3][3]float64 // [[fx 0 cx] [0 fy cy] [0 0 1]].
	Distortion        []float64     // k1, k2, p1, p2, k3[, k4, k5, k6].
	ReprojectionError float64       // Mean per-image reprojection error in pixels.
	ImageSize         image.Point   // Size of the calibration images, if known.
	Poses             []Pose        // Per calibration image poses, if known.
}

// Clone returns a deep copy of m.
func (m Model) Clone() Model {
	c := m
	c.Distortion = append([]float64(nil), m.Distortion...)
	c.Poses = append([]Pose(nil), m.Poses...)
	return c
}

// Matrix returns the camera matrix as a new 3x3 dense matrix.
func (m Model) Matrix() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := range m.CameraMatrix {
		for j := range m.CameraMatrix[i] {
			d.Set(i, j, m.CameraMatrix[i][j])
		}
	}
	return d
}

// MatrixFrom converts a 3x3 matrix to the array form held by Model.
func MatrixFrom(a mat.Matrix) ([3][3]float64, bool) {
	var out [3][3]float64
	r, c := a.Dims()
	if r != 3 || c != 3 {
		return out, false
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a.At(i, j)
		}
	}
	return out, true
}

// Focal returns the focal lengths fx and fy in pixels.
func (m Model) Focal() (float64, float64) { return m.CameraMatrix[0][0], m.CameraMatrix[1][1] }

// Principal returns the principal point cx, cy in pixels.
func (m Model) Principal() (float64, float64) { return m.CameraMatrix[0][2], m.CameraMatrix[1][2] }
