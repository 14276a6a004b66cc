/*
DESCRIPTION
  rectify.go provides undistortion of frames using a fitted camera model.

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

// Package rectify removes lens distortion from frames using a fitted
// camera model.
package rectify

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/camcal/pi/calib"
)

// ErrBadAlpha is returned when the free scaling parameter is outside [0, 1].
var ErrBadAlpha = errors.New("alpha must be in [0, 1]")

// Refinement is the optimal new camera matrix for one frame size and free
// scaling parameter, together with the region of interest holding only valid
// pixels after undistortion.
type Refinement struct {
	CameraMatrix [3][3]float64
	ROI          image.Rectangle
	Size         image.Point
	Alpha        float64
}

// Engine computes refinements and applies the undistortion remap.
type Engine interface {
	// Refine returns the optimal new camera matrix of m for frames of the
	// given size. Alpha 0 keeps only valid pixels, alpha 1 keeps all source
	// pixels.
	Refine(m calib.Model, size image.Point, alpha float64) (Refinement, error)

	// Undistort returns a new undistorted frame, cropped to the refinement's
	// ROI if crop is true. The caller owns both frames.
	Undistort(f calib.Frame, m calib.Model, r Refinement, crop bool) (calib.Frame, error)
}

type refKey struct {
	w, h  int
	alpha float64
}

// Rectifier undistorts frames of any size with a single camera model.
// Refinements are computed once per frame size. A Rectifier is safe for
// concurrent use.
type Rectifier struct {
	engine Engine
	model  calib.Model
	alpha  float64
	crop   bool
	log    logging.Logger

	mu     sync.Mutex
	cache  map[refKey]Refinement
	warned map[image.Point]bool
}

// NewRectifier returns a Rectifier for model m.
func NewRectifier(e Engine, m calib.Model, alpha float64, crop bool, log logging.Logger) (*Rectifier, error) {
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrBadAlpha, alpha)
	}
	if len(m.Distortion) == 0 {
		return nil, errors.New("model has no distortion coefficients")
	}
	return &Rectifier{
		engine: e,
		model:  m.Clone(),
		alpha:  alpha,
		crop:   crop,
		log:    log,
		cache:  make(map[refKey]Refinement),
		warned: make(map[image.Point]bool),
	}, nil
}

// Refinement returns the refinement used for frames of the given size,
// computing it if needed.
func (r *Rectifier) Refinement(size image.Point) (Refinement, error) {
	if size.X <= 0 || size.Y <= 0 {
		return Refinement{}, fmt.Errorf("invalid frame size: %v", size)
	}
	k := refKey{w: size.X, h: size.Y, alpha: r.alpha}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.cache[k]; ok {
		return ref, nil
	}

	cs := r.model.ImageSize
	if cs != (image.Point{}) && cs != size && !r.warned[size] {
		r.warned[size] = true
		r.log.Warning("frame size differs from calibration size", "frame", size, "calibration", cs)
	}

	ref, err := r.engine.Refine(r.model, size, r.alpha)
	if err != nil {
		return Refinement{}, fmt.Errorf("could not refine camera matrix: %w", err)
	}
	r.cache[k] = ref
	r.log.Debug("computed refinement", "size", size, "alpha", r.alpha, "roi", ref.ROI)
	return ref, nil
}

// Rectify returns an undistorted copy of f and the valid pixel region of
// the undistorted frame. If cropping, the returned frame covers just that
// region. The caller must close the returned frame.
func (r *Rectifier) Rectify(f calib.Frame) (calib.Frame, image.Rectangle, error) {
	ref, err := r.Refinement(f.Size())
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	out, err := r.engine.Undistort(f, r.model, ref, r.crop)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("could not undistort frame: %w", err)
	}
	return out, ref.ROI, nil
}
