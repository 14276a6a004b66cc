/*
DESCRIPTION
  evaluate_test.go provides testing for projection and reprojection error
  evaluation in evaluate.go.

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
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// TestProjectPinhole checks projection through an undistorted camera.
func TestProjectPinhole(t *testing.T) {
	m := Model{
		CameraMatrix: [3][3]float64{{1000, 0, 320}, {0, 900, 240}, {0, 0, 1}},
		Distortion:   []float64{0, 0, 0, 0, 0},
	}
	pose := Pose{Translation: r3.Vector{Z: 2}}
	pts := []r3.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}}
	want := []r2.Point{{X: 320, Y: 240}, {X: 820, Y: 240}, {X: 320, Y: -210}}

	got := Project(pts, pose, m)
	for i := range want {
		if math.Abs(got[i].X-want[i].X) > 1e-9 || math.Abs(got[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("did not get expected projection for point %d. Got: %v, Want: %v", i, got[i], want[i])
		}
	}
}

// TestProjectRotation checks a quarter turn about the optical axis.
func TestProjectRotation(t *testing.T) {
	m := Model{
		CameraMatrix: [3][3]float64{{100, 0, 0}, {0, 100, 0}, {0, 0, 1}},
		Distortion:   []float64{0, 0, 0, 0, 0},
	}
	pose := Pose{Rotation: r3.Vector{Z: math.Pi / 2}, Translation: r3.Vector{Z: 1}}
	got := Project([]r3.Vector{{X: 1}}, pose, m)[0]
	if math.Abs(got.X) > 1e-9 || math.Abs(got.Y-100) > 1e-9 {
		t.Errorf("did not get expected rotated projection. Got: %v, Want: (0, 100)", got)
	}
}

// TestProjectDistortion checks that barrel distortion pulls points towards
// the principal point.
func TestProjectDistortion(t *testing.T) {
	m := groundTruth.Clone()
	m.Distortion = []float64{-0.3, 0, 0, 0, 0}
	undist := groundTruth.Clone()
	undist.Distortion = nil

	pose := Pose{Translation: r3.Vector{Z: 4}}
	pt := []r3.Vector{{X: 2, Y: 1}}
	cx, cy := m.Principal()
	c := r2.Point{X: cx, Y: cy}

	d := Project(pt, pose, m)[0].Sub(c).Norm()
	u := Project(pt, pose, undist)[0].Sub(c).Norm()
	if d >= u {
		t.Errorf("expected distorted radius %v to be less than undistorted radius %v", d, u)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	got := Project([]r3.Vector{{X: 1, Y: 1}}, Pose{}, groundTruth)[0]
	if !math.IsNaN(got.X) || !math.IsNaN(got.Y) {
		t.Errorf("expected NaN projection for point at camera centre, got %v", got)
	}
}

// TestEvaluateExact checks that observations generated by the model itself
// give zero error.
func TestEvaluateExact(t *testing.T) {
	obs := syntheticObservations()
	mean, perView, err := Evaluate(obs, groundTruth, testPoses)
	if err != nil {
		t.Fatalf("could not evaluate: %v", err)
	}
	if mean > 1e-9 {
		t.Errorf("did not get expected zero error. Got: %v", mean)
	}
	if len(perView) != len(obs) {
		t.Errorf("did not get expected per view count. Got: %d, Want: %d", len(perView), len(obs))
	}
}

// TestEvaluateNoise checks that the error grows with the amount of pixel
// noise added to the observations.
func TestEvaluateNoise(t *testing.T) {
	clean := syntheticObservations()

	// Fixed unit noise, scaled per sigma.
	rng := rand.New(rand.NewSource(1))
	unit := make([][]r2.Point, len(clean))
	for i, o := range clean {
		unit[i] = make([]r2.Point, len(o.Pixels))
		for j := range unit[i] {
			unit[i][j] = r2.Point{X: rng.NormFloat64(), Y: rng.NormFloat64()}
		}
	}

	prev := -1.0
	for _, sigma := range []float64{0, 0.1, 0.5, 1, 2} {
		obs := make([]Observation, len(clean))
		for i, o := range clean {
			px := make([]r2.Point, len(o.Pixels))
			for j, p := range o.Pixels {
				px[j] = p.Add(unit[i][j].Mul(sigma))
			}
			obs[i] = Observation{Pattern: o.Pattern, Pixels: px}
		}
		mean, _, err := Evaluate(obs, groundTruth, testPoses)
		if err != nil {
			t.Fatalf("could not evaluate with sigma %v: %v", sigma, err)
		}
		if mean <= prev {
			t.Errorf("error did not increase with noise. sigma: %v, error: %v, previous: %v", sigma, mean, prev)
		}
		prev = mean
	}
}

func TestEvaluateErrors(t *testing.T) {
	obs := syntheticObservations()

	_, _, err := Evaluate(nil, groundTruth, nil)
	if !errors.Is(err, ErrInsufficientObservations) {
		t.Errorf("did not get expected error for no observations. Got: %v", err)
	}

	_, _, err = Evaluate(obs, groundTruth, testPoses[:1])
	if err == nil {
		t.Errorf("expected error for pose count mismatch")
	}

	bad := append([]Observation(nil), obs...)
	bad[1] = Observation{Pattern: obs[1].Pattern, Pixels: obs[1].Pixels[:3]}
	_, _, err = Evaluate(bad, groundTruth, testPoses)
	if !errors.Is(err, ErrMalformedObservation) {
		t.Errorf("did not get expected error for malformed observation. Got: %v", err)
	}
}

func TestMatrixFrom(t *testing.T) {
	got, ok := MatrixFrom(groundTruth.Matrix())
	if !ok {
		t.Fatalf("could not convert 3x3 matrix")
	}
	if got != groundTruth.CameraMatrix {
		t.Errorf("did not get expected matrix. Got: %v, Want: %v", got, groundTruth.CameraMatrix)
	}
	fx, fy := groundTruth.Focal()
	if fx != 1400 || fy != 1395 {
		t.Errorf("did not get expected focal lengths. Got: %v, %v", fx, fy)
	}
}
