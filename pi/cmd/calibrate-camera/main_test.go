/*
DESCRIPTION
  main_test.go provides testing of the calibration run using fake vision
  operations.

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
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/rectify"
)

var truth = calib.Model{
	RMS:          0.2,
	CameraMatrix: [3][3]float64{{600, 0, 320}, {0, 600, 240}, {0, 0, 1}},
	Distortion:   []float64{-0.1, 0.01, 0, 0, 0},
}

var poses = []calib.Pose{
	{Rotation: r3.Vector{X: 0.1}, Translation: r3.Vector{X: -4, Y: -2.5, Z: 20}},
	{Rotation: r3.Vector{Y: 0.2}, Translation: r3.Vector{X: -3, Y: -3, Z: 18}},
	{Rotation: r3.Vector{Z: 0.1}, Translation: r3.Vector{X: -5, Y: -2, Z: 22}},
	{Rotation: r3.Vector{X: -0.2}, Translation: r3.Vector{X: -4, Y: -3, Z: 16}},
}

type frame struct{ size image.Point }

func (f *frame) Size() image.Point { return f.size }
func (f *frame) Close() error      { return nil }

func open(name string) (calib.Frame, error) {
	_, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	return &frame{size: image.Pt(640, 480)}, nil
}

// detector finds the pattern in all images except those named in miss,
// reporting corners as projected through truth at successive poses.
type detector struct {
	miss map[string]bool
	n    int
}

func (d *detector) Detect(f calib.Frame, spec calib.PatternSpec) ([]r2.Point, bool, error) {
	return d.detect(spec)
}

func (d *detector) detect(spec calib.PatternSpec) ([]r2.Point, bool, error) {
	pose := poses[d.n%len(poses)]
	d.n++
	return calib.Project(calib.Generate(spec), pose, truth), true, nil
}

// namedDetector wraps detector to skip by image name, using the name
// recorded by the opener.
type namedDetector struct {
	detector
	names []string
	i     int
}

func (d *namedDetector) Detect(f calib.Frame, spec calib.PatternSpec) ([]r2.Point, bool, error) {
	name := filepath.Base(d.names[d.i])
	d.i++
	if d.miss[name] {
		return nil, false, nil
	}
	return d.detect(spec)
}

type optimizer struct{}

func (optimizer) Calibrate(obs []calib.Observation, size image.Point) (calib.Fit, error) {
	fit := calib.Fit{
		RMS:          truth.RMS,
		CameraMatrix: truth.CameraMatrix,
		Distortion:   append([]float64(nil), truth.Distortion...),
	}
	for i := range obs {
		fit.Poses = append(fit.Poses, poses[i%len(poses)])
	}
	return fit, nil
}

type engine struct{}

func (engine) Refine(m calib.Model, size image.Point, alpha float64) (rectify.Refinement, error) {
	return rectify.Refinement{CameraMatrix: m.CameraMatrix, ROI: image.Rect(10, 10, size.X-10, size.Y-10), Size: size, Alpha: alpha}, nil
}

func (engine) Undistort(f calib.Frame, m calib.Model, r rectify.Refinement, crop bool) (calib.Frame, error) {
	if crop {
		return &frame{size: r.ROI.Size()}, nil
	}
	return &frame{size: f.Size()}, nil
}

func write(path string, f calib.Frame) error {
	return os.WriteFile(path, []byte("undistorted"), 0644)
}

// setup creates an image directory holding the given files and returns a
// config using it.
func setup(t *testing.T, files ...string) config {
	dir := t.TempDir()
	imgDir := filepath.Join(dir, "images")
	err := os.Mkdir(imgDir, 0755)
	if err != nil {
		t.Fatalf("could not create image directory: %v", err)
	}
	for _, f := range files {
		err = os.WriteFile(filepath.Join(imgDir, f), nil, 0644)
		if err != nil {
			t.Fatalf("could not create image file: %v", err)
		}
	}
	return config{
		imgDir:    imgDir,
		saveDir:   filepath.Join(dir, "undistorted"),
		modelPath: filepath.Join(dir, "calibrate_camera.json"),
		exts:      []string{"png"},
		spec:      calib.PatternSpec{Columns: 9, Rows: 6},
		alpha:     1,
		crop:      true,
		rectify:   true,
	}
}

func TestRun(t *testing.T) {
	cfg := setup(t, "d.png", "a.png", "c.png", "b.png", "notes.txt")
	names, err := listImages(cfg.imgDir, cfg.exts)
	if err != nil {
		t.Fatalf("could not list images: %v", err)
	}
	p := pipeline{
		open:   open,
		write:  write,
		det:    &namedDetector{detector: detector{miss: map[string]bool{"c.png": true}}, names: names},
		opt:    optimizer{},
		engine: engine{},
	}

	var out bytes.Buffer
	err = run(context.Background(), cfg, p, &out, (*logging.TestLogger)(t))
	if err != nil {
		t.Fatalf("could not run calibration: %v", err)
	}

	m, err := calib.Load(cfg.modelPath)
	if err != nil {
		t.Fatalf("could not load saved model: %v", err)
	}
	if m.CameraMatrix != truth.CameraMatrix || len(m.Poses) != 3 {
		t.Errorf("did not get expected saved model: %+v", m)
	}
	if m.ImageSize != image.Pt(640, 480) {
		t.Errorf("did not get expected image size in saved model: %v", m.ImageSize)
	}
	if m.ReprojectionError > 1e-9 {
		t.Errorf("did not get expected zero reprojection error. Got: %v", m.ReprojectionError)
	}

	for i := 1; i <= 4; i++ {
		_, err := os.Stat(filepath.Join(cfg.saveDir, fmt.Sprintf("undistorted_%d.png", i)))
		if err != nil {
			t.Errorf("undistorted image %d not written: %v", i, err)
		}
	}
	_, err = os.Stat(filepath.Join(cfg.saveDir, "undistorted_5.png"))
	if err == nil {
		t.Errorf("did not expect a fifth undistorted image")
	}

	report := out.String()
	for _, want := range []string{"Camera calibration", "4 presented, 3 detected, 1 skipped", "640x480", "600.0000"} {
		if !strings.Contains(report, want) {
			t.Errorf("report does not contain %q:\n%s", want, report)
		}
	}
}

func TestRunInsufficient(t *testing.T) {
	cfg := setup(t, "a.png", "b.png")
	p := pipeline{open: open, write: write, det: &detector{}, opt: optimizer{}, engine: engine{}}
	err := run(context.Background(), cfg, p, &bytes.Buffer{}, (*logging.TestLogger)(t))
	if !errors.Is(err, calib.ErrInsufficientObservations) {
		t.Errorf("did not get expected error. Got: %v, Want: %v", err, calib.ErrInsufficientObservations)
	}
	_, err = os.Stat(cfg.modelPath)
	if err == nil {
		t.Errorf("did not expect model file to be written")
	}
}

// cancellingDetector cancels its context once it has found the pattern
// after images.
type cancellingDetector struct {
	detector
	after  int
	cancel context.CancelFunc
}

func (d *cancellingDetector) Detect(f calib.Frame, spec calib.PatternSpec) ([]r2.Point, bool, error) {
	corners, found, err := d.detect(spec)
	if d.n == d.after {
		d.cancel()
	}
	return corners, found, err
}

func TestRunCancelled(t *testing.T) {
	tests := []struct {
		name      string
		after     int
		wantModel bool
		wantPoses int
	}{
		{name: "before any image", after: 0},
		{name: "too few views", after: 2},
		{name: "partial set", after: 3, wantModel: true, wantPoses: 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := setup(t, "a.png", "b.png", "c.png", "d.png", "e.png")
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if test.after == 0 {
				cancel()
			}
			det := &cancellingDetector{after: test.after, cancel: cancel}
			p := pipeline{open: open, write: write, det: det, opt: optimizer{}, engine: engine{}}

			err := run(ctx, cfg, p, &bytes.Buffer{}, (*logging.TestLogger)(t))
			if err != nil {
				t.Fatalf("did not expect error on cancellation: %v", err)
			}

			m, err := calib.Load(cfg.modelPath)
			if !test.wantModel {
				if err == nil {
					t.Errorf("did not expect model file after cancellation")
				}
				return
			}
			if err != nil {
				t.Fatalf("could not load model calibrated on partial set: %v", err)
			}
			if len(m.Poses) != test.wantPoses {
				t.Errorf("did not get expected number of poses. Got: %d, Want: %d", len(m.Poses), test.wantPoses)
			}
			_, err = os.Stat(filepath.Join(cfg.saveDir, "undistorted_1.png"))
			if err == nil {
				t.Errorf("did not expect undistorted images after cancellation")
			}
		})
	}
}

func TestSplitExts(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "png", want: []string{"png"}},
		{in: "PNG, .bmp,png,,tiff", want: []string{"png", "bmp", "tiff"}},
		{in: "", want: []string{"png"}},
	}
	for i, test := range tests {
		if d := cmp.Diff(test.want, splitExts(test.in)); d != "" {
			t.Errorf("did not get expected extensions for test %d (-want +got):\n%s", i, d)
		}
	}
}

func TestListImages(t *testing.T) {
	cfg := setup(t, "b.PNG", "a.png", "c.bmp", "d.jpg")
	got, err := listImages(cfg.imgDir, []string{"png", "bmp"})
	if err != nil {
		t.Fatalf("could not list images: %v", err)
	}
	var base []string
	for _, g := range got {
		base = append(base, filepath.Base(g))
	}
	if d := cmp.Diff([]string{"a.png", "b.PNG", "c.bmp"}, base); d != "" {
		t.Errorf("did not get expected images (-want +got):\n%s", d)
	}

	_, err = listImages(filepath.Join(cfg.imgDir, "missing"), cfg.exts)
	if err == nil {
		t.Errorf("expected error for missing directory")
	}
}

// brokenWriter fails every write, as a log file in an unwritable directory
// does.
type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) { return 0, errors.New("permission denied") }

func TestLogWriter(t *testing.T) {
	var console strings.Builder
	w := logWriter(&console, brokenWriter{})
	_, err := w.Write([]byte("calibrating\n"))
	if err == nil {
		t.Errorf("expected error from broken log file")
	}
	if console.String() != "calibrating\n" {
		t.Errorf("did not get expected console output. Got: %q", console.String())
	}
}
