//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  stub.go provides placeholders for the OpenCV backed operations of this
  package when built without OpenCV. To see the OpenCV versions consult
  image.go, detect.go, optimize.go, undistort.go and capture.go.

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

package vision

import (
	"image"

	"github.com/ausocean/utils/logging"
	"github.com/golang/geo/r2"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/rectify"
)

// Read returns ErrNoOpenCV.
func Read(path string) (calib.Frame, error) { return nil, ErrNoOpenCV }

// Write returns ErrNoOpenCV.
func Write(path string, f calib.Frame) error { return ErrNoOpenCV }

// Detector is a placeholder for the OpenCV corner detector.
type Detector struct {
	Annotated *rectify.Namer
}

// Detect returns ErrNoOpenCV.
func (d *Detector) Detect(f calib.Frame, spec calib.PatternSpec) ([]r2.Point, bool, error) {
	return nil, false, ErrNoOpenCV
}

// Optimizer is a placeholder for the OpenCV calibration solver.
type Optimizer struct {
	Rational bool
}

// Calibrate returns ErrNoOpenCV.
func (o *Optimizer) Calibrate(obs []calib.Observation, size image.Point) (calib.Fit, error) {
	return calib.Fit{}, ErrNoOpenCV
}

// Engine is a placeholder for the OpenCV undistortion engine.
type Engine struct{}

// Refine returns ErrNoOpenCV.
func (Engine) Refine(m calib.Model, size image.Point, alpha float64) (rectify.Refinement, error) {
	return rectify.Refinement{}, ErrNoOpenCV
}

// Undistort returns ErrNoOpenCV.
func (Engine) Undistort(f calib.Frame, m calib.Model, r rectify.Refinement, crop bool) (calib.Frame, error) {
	return nil, ErrNoOpenCV
}

// Camera is a placeholder for an OpenCV capture device.
type Camera struct{ log logging.Logger }

// NewCamera returns a Camera whose operations all fail.
func NewCamera(log logging.Logger) *Camera { return &Camera{log: log} }

// Configure returns ErrNoOpenCV.
func (c *Camera) Configure(cfg CaptureConfig) error { return ErrNoOpenCV }

// Start returns ErrNoOpenCV.
func (c *Camera) Start() error { return ErrNoOpenCV }

// Capture returns ErrNoOpenCV.
func (c *Camera) Capture() (calib.Frame, error) { return nil, ErrNoOpenCV }

// Stop does nothing.
func (c *Camera) Stop() error { return nil }

// Close does nothing.
func (c *Camera) Close() error { return nil }
