/*
DESCRIPTION
  calibrate-camera estimates a camera's intrinsic parameters from a
  directory of checkerboard images, saves them as a camera model file and
  writes undistorted copies of the images.

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

// calibrate-camera estimates a camera's intrinsic parameters from a directory
// of checkerboard images. The fitted camera model is saved as JSON for use by
// undistort-camera, a report is printed, and the calibration images are
// undistorted into the save directory.
//
// OpenCV is required; build with -tags withcv.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/sliceutils"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/flagfile"
	"github.com/ausocean/camcal/pi/rectify"
	"github.com/ausocean/camcal/pi/vision"
)

// Logging configuration consts.
const (
	defaultLogPath = "/var/log/camcal/calibrate-camera.log"
	logMaxSize     = 500 // MB.
	logMaxBackup   = 10
	logMaxAge      = 28 // Days.
	logSuppress    = false
)

// Exit code for usage errors.
const exitUsage = 2

// config holds the settings of a calibration run.
type config struct {
	imgDir    string
	saveDir   string
	modelPath string
	plotDir   string
	exts      []string
	spec      calib.PatternSpec
	alpha     float64
	crop      bool
	rectify   bool
	verbose   bool
}

// pipeline holds the image IO and vision operations used by run.
type pipeline struct {
	open   calib.OpenFunc
	write  func(path string, f calib.Frame) error
	det    calib.Detector
	opt    calib.Optimizer
	engine rectify.Engine
}

func main() {
	var (
		imgDir      = flag.String("imgdir", "images", "Directory of checkerboard images.")
		saveDir     = flag.String("savedir", "undistorted", "Directory for undistorted images.")
		board       = flag.String("board", "9x6", "Inner corners per checkerboard row and column, as <columns>x<rows>.")
		modelPath   = flag.String("model", "calibrate_camera.json", "Camera model file to write.")
		alpha       = flag.Float64("alpha", 1, "Free scaling parameter in [0, 1] for undistortion; 0 keeps only valid pixels.")
		crop        = flag.Bool("crop", true, "Crop undistorted images to the valid pixel region.")
		noRectify   = flag.Bool("norectify", false, "Do not write undistorted images.")
		exts        = flag.String("ext", "png", "Comma separated list of image file extensions to use.")
		rational    = flag.Bool("rational", false, "Fit the rational distortion model (k4, k5, k6).")
		plotDir     = flag.String("plot", "", "If set, directory to write reprojection error plots to.")
		annotateDir = flag.String("annotate", "", "If set, directory to write images with detected corners drawn to.")
		configPath  = flag.String("config", "", "Optional config file of \"<flag> <value>\" lines.")
		logPath     = flag.String("log", defaultLogPath, "Log file path.")
		debug       = flag.Bool("debug", false, "Log debug messages.")
		verbose     = flag.Bool("v", false, "Include per image poses in the report.")
	)
	flag.Parse()

	if *configPath != "" {
		_, err := flagfile.Apply(flag.CommandLine, *configPath)
		if err != nil {
			usage(err)
		}
	}

	// Create lumberjack logger.
	fileLog := &lumberjack.Logger{
		Filename:   *logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	level := logging.Info
	if *debug {
		level = logging.Debug
	}
	log := logging.New(int8(level), logWriter(os.Stderr, fileLog), logSuppress)

	spec, err := calib.ParsePatternSpec(*board)
	if err != nil {
		usage(err)
	}
	cfg := config{
		imgDir:    *imgDir,
		saveDir:   *saveDir,
		modelPath: *modelPath,
		plotDir:   *plotDir,
		exts:      splitExts(*exts),
		spec:      spec,
		alpha:     *alpha,
		crop:      *crop,
		rectify:   !*noRectify,
		verbose:   *verbose,
	}

	det := &vision.Detector{}
	if *annotateDir != "" {
		det.Annotated, err = rectify.NewNamer(*annotateDir, "corners", cfg.exts[0])
		if err != nil {
			log.Fatal("could not prepare annotation directory", "error", err)
		}
	}
	p := pipeline{
		open:   vision.Read,
		write:  vision.Write,
		det:    det,
		opt:    &vision.Optimizer{Rational: *rational},
		engine: vision.Engine{},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, p, os.Stdout, log)
	switch {
	case errors.Is(err, calib.ErrUsage), errors.Is(err, rectify.ErrBadAlpha):
		usage(err)
	case err != nil:
		log.Fatal("calibration failed", "error", err)
	}
}

// logWriter returns a writer duplicating log output to console and file.
// The console is written first, as io.MultiWriter stops at the first
// writer to fail.
func logWriter(console, file io.Writer) io.Writer {
	return io.MultiWriter(console, file)
}

// usage prints err and the command usage, then exits.
func usage(err error) {
	fmt.Fprintf(os.Stderr, "calibrate-camera: %v\n", err)
	flag.Usage()
	os.Exit(exitUsage)
}

// splitExts parses a comma separated extension list.
func splitExts(s string) []string {
	var exts []string
	for _, e := range strings.Split(s, ",") {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" && !sliceutils.ContainsString(exts, e) {
			exts = append(exts, e)
		}
	}
	if len(exts) == 0 {
		exts = []string{rectify.DefaultExt}
	}
	return exts
}

// listImages returns the paths of the files in dir having one of the given
// extensions, sorted by name.
func listImages(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read image directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), "."))
		if sliceutils.ContainsString(exts, ext) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
