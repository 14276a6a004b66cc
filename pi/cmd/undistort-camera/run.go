/*
DESCRIPTION
  run.go provides the frame loop and a directory frame source.

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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/rectify"
)

// Consecutive capture failures tolerated before giving up.
const maxCaptureFailures = 10

// Device is a source of frames. Capture returns io.EOF when no frames
// remain.
type Device interface {
	Start() error
	Capture() (calib.Frame, error)
	Stop() error
}

// writeFunc writes a frame to the file at path.
type writeFunc func(path string, f calib.Frame) error

// run undistorts frames from dev until ctx is cancelled, dev is exhausted,
// or limit frames (if non-zero) have been written. It returns the number of
// frames written.
func run(ctx context.Context, dev Device, rect *rectify.Rectifier, namer *rectify.Namer, write writeFunc, limit int, met *metrics, log logging.Logger) (int, error) {
	err := dev.Start()
	if err != nil {
		return 0, fmt.Errorf("could not start device: %w", err)
	}
	defer func() {
		if err := dev.Stop(); err != nil {
			log.Warning("could not stop device", "error", err)
		}
	}()

	var failures int
	for limit == 0 || namer.Count() < limit {
		if ctx.Err() != nil {
			log.Info("interrupted")
			return namer.Count(), nil
		}

		f, err := dev.Capture()
		if errors.Is(err, io.EOF) {
			return namer.Count(), nil
		}
		if err != nil {
			met.failures.WithLabelValues(stageCapture).Inc()
			failures++
			if failures >= maxCaptureFailures {
				return namer.Count(), fmt.Errorf("giving up after %d capture failures: %w", failures, err)
			}
			log.Warning("could not capture frame", "error", err)
			continue
		}
		failures = 0
		met.captured.Inc()

		err = process(f, rect, namer, write, met, log)
		if err != nil {
			return namer.Count(), err
		}
	}
	return namer.Count(), nil
}

// process undistorts and writes one frame, closing it.
func process(f calib.Frame, rect *rectify.Rectifier, namer *rectify.Namer, write writeFunc, met *metrics, log logging.Logger) error {
	defer f.Close()

	start := time.Now()
	out, _, err := rect.Rectify(f)
	if err != nil {
		met.failures.WithLabelValues(stageRectify).Inc()
		return fmt.Errorf("could not undistort frame: %w", err)
	}
	defer out.Close()
	met.latency.Observe(time.Since(start).Seconds())

	path := namer.Next()
	err = write(path, out)
	if err != nil {
		met.failures.WithLabelValues(stageWrite).Inc()
		return fmt.Errorf("could not write frame: %w", err)
	}
	met.written.Inc()
	log.Debug("wrote frame", "path", path, "size", out.Size())
	return nil
}

// dirSource is a Device reading the image files of a directory in name
// order.
type dirSource struct {
	paths []string
	next  int
	open  calib.OpenFunc
	log   logging.Logger
}

func newDirSource(dir string, open calib.OpenFunc, log logging.Logger) (*dirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory: %w", err)
	}
	d := &dirSource{open: open, log: log}
	for _, e := range entries {
		if !e.IsDir() {
			d.paths = append(d.paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(d.paths)
	return d, nil
}

func (d *dirSource) Start() error {
	d.next = 0
	d.log.Info("reading frames from directory", "count", len(d.paths))
	return nil
}

// Capture returns the next readable image. Unreadable files are skipped.
func (d *dirSource) Capture() (calib.Frame, error) {
	for d.next < len(d.paths) {
		p := d.paths[d.next]
		d.next++
		f, err := d.open(p)
		if err != nil {
			d.log.Warning("skipping unreadable file", "path", p, "error", err)
			continue
		}
		return f, nil
	}
	return nil, io.EOF
}

func (d *dirSource) Stop() error { return nil }
