/*
DESCRIPTION
  errors.go provides the error values shared by the calibration pipeline.

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

import "errors"

// Pipeline errors. Callers should test for these using errors.Is.
var (
	// ErrUsage indicates a malformed user supplied argument, e.g. a board
	// spec without the x separator.
	ErrUsage = errors.New("usage error")

	// ErrPatternNotFound indicates the full checkerboard could not be found
	// in an image. It is never fatal; the image is skipped.
	ErrPatternNotFound = errors.New("pattern not found")

	// ErrInsufficientObservations indicates too few successful detections
	// to perform a well conditioned calibration.
	ErrInsufficientObservations = errors.New("insufficient observations")

	// ErrMalformedObservation indicates a mismatch between pattern and pixel
	// point counts, i.e. a broken detector contract.
	ErrMalformedObservation = errors.New("malformed observation")

	// ErrCorruptModelFile indicates a camera model file with missing or
	// non-numeric fields.
	ErrCorruptModelFile = errors.New("corrupt camera model file")

	// ErrFileNotFound indicates a camera model file that does not exist.
	ErrFileNotFound = errors.New("camera model file not found")

	// ErrSizeMismatch indicates calibration images of differing pixel sizes.
	ErrSizeMismatch = errors.New("image size mismatch")
)
