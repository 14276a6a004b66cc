/*
DESCRIPTION
  solve.go provides Solve, which hands accumulated observations to a
  nonlinear calibration optimizer and packages its output as a Model.

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
	"fmt"
	"image"
)

// MinViews is the minimum number of observations required for a well
// conditioned calibration.
const MinViews = 3

// Fit is the raw output of an Optimizer.
type Fit struct {
	RMS          float64
	CameraMatrix [3][3]float64
	Distortion   []float64
	Poses        []Pose
}

// Optimizer jointly estimates camera intrinsics and per-image poses by
// minimising reprojection error over all observations.
type Optimizer interface {
	Calibrate(obs []Observation, size image.Point) (Fit, error)
}

// Solve calibrates a camera from obs, taken from images of the given pixel
// size, using opt. The returned Model has no ReprojectionError; see Evaluate.
// If there are fewer than MinViews observations, ErrInsufficientObservations
// is returned and opt is not called.
func Solve(obs []Observation, size image.Point, opt Optimizer) (Model, []Pose, error) {
	if len(obs) < MinViews {
		return Model{}, nil, fmt.Errorf("%w: have %d views, need at least %d", ErrInsufficientObservations, len(obs), MinViews)
	}
	if size.X <= 0 || size.Y <= 0 {
		return Model{}, nil, fmt.Errorf("invalid image size: %v", size)
	}
	for i, o := range obs {
		if len(o.Pixels) != len(o.Pattern) || len(o.Pattern) == 0 {
			return Model{}, nil, fmt.Errorf("observation %d: %w", i, ErrMalformedObservation)
		}
	}

	fit, err := opt.Calibrate(obs, size)
	if err != nil {
		return Model{}, nil, fmt.Errorf("could not calibrate: %w", err)
	}
	if len(fit.Poses) != len(obs) {
		return Model{}, nil, fmt.Errorf("optimizer returned %d poses for %d observations", len(fit.Poses), len(obs))
	}
	if len(fit.Distortion) == 0 {
		return Model{}, nil, errors.New("optimizer returned no distortion coefficients")
	}

	m := Model{
		RMS:          fit.RMS,
		CameraMatrix: fit.CameraMatrix,
		Distortion:   append([]float64(nil), fit.Distortion...),
		ImageSize:    size,
		Poses:        append([]Pose(nil), fit.Poses...),
	}
	return m, fit.Poses, nil
}
