/*
DESCRIPTION
  collect.go provides Collect, which runs a corner detector over a batch of
  calibration images and accumulates the resulting observations.

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
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Frame is a raster image of known pixel size, e.g. a decoded calibration
// image or a frame from a capture device. Close releases any resources held.
type Frame interface {
	Size() image.Point
	Close() error
}

// Detector locates the interior corners of a checkerboard in a frame.
// If the full pattern cannot be found, found is false and corners is nil;
// this is not an error. Detectors may instead return ErrPatternNotFound.
// Corners are returned in row-major scan order.
type Detector interface {
	Detect(f Frame, spec PatternSpec) (corners []r2.Point, found bool, err error)
}

// OpenFunc opens the named image as a Frame.
type OpenFunc func(name string) (Frame, error)

// Summary describes the outcome of a Collect run.
type Summary struct {
	Presented int         // Images presented for detection.
	Detected  int         // Images where the pattern was found.
	Skipped   int         // Images where the pattern was not found.
	ImageSize image.Point // Pixel size shared by all presented images.
}

// Collect opens each named image, runs det over it and accumulates an
// observation for every image in which the pattern is found. Images where the
// pattern is not found are skipped and counted in the returned Summary.
// All images must have the same pixel size, otherwise ErrSizeMismatch is
// returned. If ctx is cancelled, Collect stops and returns what has been
// accumulated so far without error.
func Collect(ctx context.Context, names []string, open OpenFunc, det Detector, spec PatternSpec, log logging.Logger) (*Accumulator, Summary, error) {
	var sum Summary
	if err := spec.Validate(); err != nil {
		return nil, sum, err
	}

	acc := NewAccumulator(len(names))
	pattern := Generate(spec)

	for _, name := range names {
		select {
		case <-ctx.Done():
			log.Info("collection interrupted", "presented", sum.Presented, "detected", sum.Detected)
			return acc, sum, nil
		default:
		}

		found, err := collectOne(name, open, det, spec, pattern, acc, &sum, log)
		if err != nil {
			return nil, sum, err
		}
		if !found {
			sum.Skipped++
			log.Debug("pattern not found, skipping image", "image", name)
			continue
		}
		sum.Detected++
	}
	return acc, sum, nil
}

// collectOne processes a single image, closing it before returning.
func collectOne(name string, open OpenFunc, det Detector, spec PatternSpec, pattern []r3.Vector, acc *Accumulator, sum *Summary, log logging.Logger) (bool, error) {
	f, err := open(name)
	if err != nil {
		return false, fmt.Errorf("could not open image %s: %w", name, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warning("could not close image", "image", name, "error", err)
		}
	}()

	size := f.Size()
	if sum.Presented == 0 {
		sum.ImageSize = size
	} else if size != sum.ImageSize {
		return false, fmt.Errorf("%w: %s is %v, expected %v", ErrSizeMismatch, name, size, sum.ImageSize)
	}
	sum.Presented++

	timer := time.Now()
	corners, found, err := det.Detect(f, spec)
	if errors.Is(err, ErrPatternNotFound) {
		found, err = false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not run detection on %s: %w", name, err)
	}
	log.Debug("detection complete", "image", name, "found", found, "duration (sec)", time.Since(timer).Seconds())
	if !found {
		return false, nil
	}

	err = acc.Add(pattern, corners)
	if err != nil {
		return false, fmt.Errorf("detector contract violated for %s: %w", name, err)
	}
	return true, nil
}
