//go:build withcv
// +build withcv

/*
DESCRIPTION
  image.go provides reading and writing of images as OpenCV matrices.

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

	"gocv.io/x/gocv"

	"github.com/ausocean/camcal/pi/calib"
)

// Image is a calib.Frame holding an OpenCV matrix.
type Image struct {
	Mat gocv.Mat
}

// Size implements calib.Frame.
func (i *Image) Size() image.Point { return image.Pt(i.Mat.Cols(), i.Mat.Rows()) }

// Close implements calib.Frame.
func (i *Image) Close() error { return i.Mat.Close() }

// Read reads the colour image at path.
func Read(path string) (calib.Frame, error) {
	m := gocv.IMRead(path, gocv.IMReadColor)
	if m.Empty() {
		m.Close()
		return nil, fmt.Errorf("could not read image %s", path)
	}
	return &Image{Mat: m}, nil
}

// Write writes f to path, with the format given by the path's extension.
func Write(path string, f calib.Frame) error {
	img, err := asImage(f)
	if err != nil {
		return err
	}
	if !gocv.IMWrite(path, img.Mat) {
		return fmt.Errorf("could not write image %s", path)
	}
	return nil
}

// asImage returns f as an *Image.
func asImage(f calib.Frame) (*Image, error) {
	img, ok := f.(*Image)
	if !ok {
		return nil, fmt.Errorf("unsupported frame type %T", f)
	}
	if img.Mat.Empty() {
		return nil, errors.New("empty frame")
	}
	return img, nil
}
