/*
DESCRIPTION
  evaluate.go provides reprojection of pattern points through a camera model
  and the mean reprojection error used to judge calibration accuracy.

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
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Rotations smaller than this are treated as the identity.
const minAngle = 1e-12

// Project projects pattern points into pixel coordinates using the pose and
// the camera matrix and distortion coefficients of m. Distortion follows the
// Brown-Conrady model with coefficient order k1, k2, p1, p2, k3, and the
// rational coefficients k4, k5, k6 when present.
func Project(pts []r3.Vector, pose Pose, m Model) []r2.Point {
	k := m.Matrix()
	k1, k2, p1, p2, k3 := coeff(m.Distortion, 0), coeff(m.Distortion, 1), coeff(m.Distortion, 2), coeff(m.Distortion, 3), coeff(m.Distortion, 4)
	k4, k5, k6 := coeff(m.Distortion, 5), coeff(m.Distortion, 6), coeff(m.Distortion, 7)

	out := make([]r2.Point, len(pts))
	h := mat.NewVecDense(3, nil)
	for i, p := range pts {
		c := rotate(p, pose.Rotation).Add(pose.Translation)
		if c.Z == 0 {
			out[i] = r2.Point{X: math.NaN(), Y: math.NaN()}
			continue
		}
		x, y := c.X/c.Z, c.Y/c.Z

		rr := x*x + y*y
		radial := (1 + k1*rr + k2*rr*rr + k3*rr*rr*rr) / (1 + k4*rr + k5*rr*rr + k6*rr*rr*rr)
		xd := x*radial + 2*p1*x*y + p2*(rr+2*x*x)
		yd := y*radial + p1*(rr+2*y*y) + 2*p2*x*y

		h.MulVec(k, mat.NewVecDense(3, []float64{xd, yd, 1}))
		out[i] = r2.Point{X: h.AtVec(0) / h.AtVec(2), Y: h.AtVec(1) / h.AtVec(2)}
	}
	return out
}

// rotate rotates p by the Rodrigues rotation vector rv.
func rotate(p, rv r3.Vector) r3.Vector {
	theta := rv.Norm()
	if theta < minAngle {
		return p
	}
	k := rv.Mul(1 / theta)
	sin, cos := math.Sincos(theta)
	return p.Mul(cos).Add(k.Cross(p).Mul(sin)).Add(k.Mul(k.Dot(p) * (1 - cos)))
}

// coeff returns d[i], or zero if d is too short.
func coeff(d []float64, i int) float64 {
	if i < len(d) {
		return d[i]
	}
	return 0
}

// Evaluate reprojects the pattern points of each observation through m and
// the corresponding pose, and returns the mean over all observations of the
// L2 norm between projected and observed pixel coordinates divided by the
// number of points. The per observation errors are also returned.
func Evaluate(obs []Observation, m Model, poses []Pose) (float64, []float64, error) {
	if len(obs) == 0 {
		return 0, nil, fmt.Errorf("%w: nothing to evaluate", ErrInsufficientObservations)
	}
	if len(poses) != len(obs) {
		return 0, nil, fmt.Errorf("have %d poses for %d observations", len(poses), len(obs))
	}

	perView := make([]float64, len(obs))
	for i, o := range obs {
		if len(o.Pixels) != len(o.Pattern) || len(o.Pattern) == 0 {
			return 0, nil, fmt.Errorf("observation %d: %w", i, ErrMalformedObservation)
		}
		projected := Project(o.Pattern, poses[i], m)
		perView[i] = floats.Distance(flatten(o.Pixels), flatten(projected), 2) / float64(len(projected))
	}
	return stat.Mean(perView, nil), perView, nil
}

// flatten returns pts as x0, y0, x1, y1, ...
func flatten(pts []r2.Point) []float64 {
	out := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, p.X, p.Y)
	}
	return out
}
