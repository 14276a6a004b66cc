//go:build withcv
// +build withcv

/*
DESCRIPTION
  detect.go provides checkerboard corner detection using OpenCV.

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
	"fmt"
	"image"

	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/rectify"
)

// Sub-pixel refinement parameters.
const (
	subPixWin   = 11    // Half of the search window side length.
	subPixIters = 30    // Maximum refinement iterations.
	subPixEps   = 0.001 // Minimum corner movement, in pixels, to continue.
)

// Detector finds checkerboard corners with sub-pixel accuracy.
type Detector struct {
	// Annotated, if set, names files to write a copy of each frame, with the
	// detected corners drawn, when the pattern is found.
	Annotated *rectify.Namer
}

// Detect implements calib.Detector.
func (d *Detector) Detect(f calib.Frame, spec calib.PatternSpec) ([]r2.Point, bool, error) {
	img, err := asImage(f)
	if err != nil {
		return nil, false, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Mat.Channels() == 1 {
		img.Mat.CopyTo(&gray)
	} else {
		gocv.CvtColor(img.Mat, &gray, gocv.ColorBGRToGray)
	}

	size := image.Pt(spec.Columns, spec.Rows)
	corners := gocv.NewMat()
	defer corners.Close()
	found := gocv.FindChessboardCorners(gray, size, &corners, gocv.CalibCBAdaptiveThresh|gocv.CalibCBFastCheck|gocv.CalibCBNormalizeImage)
	if !found || corners.Rows() != spec.Len() {
		return nil, false, nil
	}

	gocv.CornerSubPix(
		gray,
		&corners,
		image.Pt(subPixWin, subPixWin),
		image.Pt(-1, -1),
		gocv.NewTermCriteria(gocv.MaxIter+gocv.EPS, subPixIters, subPixEps),
	)

	pts := make([]r2.Point, corners.Rows())
	for i := range pts {
		v := corners.GetVecfAt(i, 0)
		pts[i] = r2.Point{X: float64(v[0]), Y: float64(v[1])}
	}

	if d.Annotated != nil {
		err = annotate(d.Annotated.Next(), img.Mat, size, corners)
		if err != nil {
			return nil, false, err
		}
	}
	return pts, true, nil
}

// annotate writes a copy of m with corners drawn to path.
func annotate(path string, m gocv.Mat, size image.Point, corners gocv.Mat) error {
	out := m.Clone()
	defer out.Close()
	gocv.DrawChessboardCorners(&out, size, corners, true)
	if !gocv.IMWrite(path, out) {
		return fmt.Errorf("could not write annotated image %s", path)
	}
	return nil
}
