/*
DESCRIPTION
  vision.go provides the OpenCV independent parts of the vision package.

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

// Package vision provides OpenCV backed implementations of the calibration
// and rectification contracts, along with image IO and camera capture.
// Building with OpenCV requires the withcv build tag; without it every
// operation returns ErrNoOpenCV.
package vision

import "errors"

// ErrNoOpenCV is returned by all operations when built without OpenCV.
var ErrNoOpenCV = errors.New("vision: built without OpenCV, rebuild with -tags withcv")

// CaptureConfig holds capture device settings. Zero values leave the device
// defaults unchanged.
type CaptureConfig struct {
	Device string // Device index (e.g. "0") or path/URL.
	Width  int
	Height int
	FourCC string // Pixel format, e.g. "MJPG".
}
