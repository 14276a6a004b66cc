//go:build withcv
// +build withcv

/*
DESCRIPTION
  optimize.go provides camera calibration using OpenCV's calibrateCamera.

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
	"fmt"
	"image"

	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"

	"github.com/ausocean/camcal/pi/calib"
)

// calibRationalModel is OpenCV's CALIB_RATIONAL_MODEL flag.
const calibRationalModel gocv.CalibFlag = 1 << 14

// Optimizer implements calib.Optimizer using OpenCV.
type Optimizer struct {
	// Rational enables the k4, k5 and k6 distortion coefficients.
	Rational bool
}

// Calibrate implements calib.Optimizer.
func (o *Optimizer) Calibrate(obs []calib.Observation, size image.Point) (calib.Fit, error) {
	objPts := gocv.NewPoints3fVector()
	defer objPts.Close()
	imgPts := gocv.NewPoints2fVector()
	defer imgPts.Close()

	for _, ob := range obs {
		p3 := make([]gocv.Point3f, len(ob.Pattern))
		for i, p := range ob.Pattern {
			p3[i] = gocv.Point3f{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
		}
		v3 := gocv.NewPoint3fVectorFromPoints(p3)
		objPts.Append(v3)
		v3.Close()

		p2 := make([]gocv.Point2f, len(ob.Pixels))
		for i, p := range ob.Pixels {
			p2[i] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
		}
		v2 := gocv.NewPoint2fVectorFromPoints(p2)
		imgPts.Append(v2)
		v2.Close()
	}

	k := gocv.NewMat()
	defer k.Close()
	dist := gocv.NewMat()
	defer dist.Close()
	rvecs := gocv.NewMat()
	defer rvecs.Close()
	tvecs := gocv.NewMat()
	defer tvecs.Close()

	var flags gocv.CalibFlag
	if o.Rational {
		flags |= calibRationalModel
	}
	rms := gocv.CalibrateCamera(objPts, imgPts, size, &k, &dist, &rvecs, &tvecs, flags)

	if k.Rows() != 3 || k.Cols() != 3 {
		return calib.Fit{}, errors.New("calibration did not produce a camera matrix")
	}
	fit := calib.Fit{RMS: rms, CameraMatrix: matToArray(k), Distortion: matToSlice(dist)}

	if rvecs.Rows() != len(obs) || tvecs.Rows() != len(obs) {
		return calib.Fit{}, fmt.Errorf("calibration produced %d rotations and %d translations for %d views", rvecs.Rows(), tvecs.Rows(), len(obs))
	}
	fit.Poses = make([]calib.Pose, len(obs))
	for i := range fit.Poses {
		r, t := rvecs.GetVecdAt(i, 0), tvecs.GetVecdAt(i, 0)
		fit.Poses[i] = calib.Pose{
			Rotation:    r3.Vector{X: r[0], Y: r[1], Z: r[2]},
			Translation: r3.Vector{X: t[0], Y: t[1], Z: t[2]},
		}
	}
	return fit, nil
}

// cameraMats returns the camera matrix and distortion coefficients of m as
// new CV_64F matrices, which the caller must close.
func cameraMats(m calib.Model) (gocv.Mat, gocv.Mat) {
	return arrayToMat(m.CameraMatrix), sliceToMat(m.Distortion)
}

func arrayToMat(a [3][3]float64) gocv.Mat {
	k := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for i := range a {
		for j := range a[i] {
			k.SetDoubleAt(i, j, a[i][j])
		}
	}
	return k
}

func sliceToMat(s []float64) gocv.Mat {
	d := gocv.NewMatWithSize(1, len(s), gocv.MatTypeCV64F)
	for i, v := range s {
		d.SetDoubleAt(0, i, v)
	}
	return d
}

func matToArray(k gocv.Mat) [3][3]float64 {
	var a [3][3]float64
	for i := range a {
		for j := range a[i] {
			a[i][j] = k.GetDoubleAt(i, j)
		}
	}
	return a
}

// matToSlice flattens a row or column vector.
func matToSlice(d gocv.Mat) []float64 {
	s := make([]float64, 0, d.Total())
	for i := 0; i < d.Rows(); i++ {
		for j := 0; j < d.Cols(); j++ {
			s = append(s, d.GetDoubleAt(i, j))
		}
	}
	return s
}
