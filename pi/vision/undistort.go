//go:build withcv
// +build withcv

/*
DESCRIPTION
  undistort.go provides lens distortion removal using OpenCV.

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
	"errors"
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/rectify"
)

// Engine implements rectify.Engine using OpenCV.
type Engine struct{}

// Refine implements rectify.Engine.
func (Engine) Refine(m calib.Model, size image.Point, alpha float64) (rectify.Refinement, error) {
	k, d := cameraMats(m)
	defer k.Close()
	defer d.Close()

	newK, roi := gocv.GetOptimalNewCameraMatrixWithParams(k, d, size, alpha, size, false)
	defer newK.Close()
	if newK.Rows() != 3 || newK.Cols() != 3 {
		return rectify.Refinement{}, errors.New("no optimal camera matrix")
	}
	return rectify.Refinement{
		CameraMatrix: matToArray(newK),
		ROI:          roi,
		Size:         size,
		Alpha:        alpha,
	}, nil
}

// Undistort implements rectify.Engine.
func (Engine) Undistort(f calib.Frame, m calib.Model, r rectify.Refinement, crop bool) (calib.Frame, error) {
	img, err := asImage(f)
	if err != nil {
		return nil, err
	}
	k, d := cameraMats(m)
	defer k.Close()
	defer d.Close()
	newK := arrayToMat(r.CameraMatrix)
	defer newK.Close()

	dst := gocv.NewMat()
	gocv.Undistort(img.Mat, &dst, k, d, newK)
	if !crop {
		return &Image{Mat: dst}, nil
	}
	defer dst.Close()

	roi := r.ROI.Intersect(image.Rect(0, 0, dst.Cols(), dst.Rows()))
	if roi.Empty() {
		return nil, errors.New("empty region of interest")
	}
	region := dst.Region(roi)
	defer region.Close()
	return &Image{Mat: region.Clone()}, nil
}
