/*
DESCRIPTION
  undistort-camera removes lens distortion from frames captured from a
  camera, or read from a directory, using a saved camera model.

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

// undistort-camera loads a camera model written by calibrate-camera and
// undistorts frames from a capture device, or images from a directory,
// writing the results to the save directory. It runs until interrupted or,
// if -frames is set, until that many frames have been written.
//
// OpenCV is required; build with -tags withcv.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ausocean/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/flagfile"
	"github.com/ausocean/camcal/pi/rectify"
	"github.com/ausocean/camcal/pi/vision"
)

// Logging configuration consts.
const (
	defaultLogPath = "/var/log/camcal/undistort-camera.log"
	logMaxSize     = 500 // MB.
	logMaxBackup   = 10
	logMaxAge      = 28 // Days.
	logSuppress    = false
)

// Exit code for usage errors.
const exitUsage = 2

func main() {
	var (
		modelPath   = flag.String("model", "calibrate_camera.json", "Camera model file.")
		device      = flag.String("device", "0", "Capture device index or path.")
		inDir       = flag.String("input", "", "If set, undistort the images in this directory instead of capturing.")
		res         = flag.String("res", "1920x1080", "Capture resolution, as <width>x<height>.")
		fourcc      = flag.String("fourcc", "MJPG", "Capture pixel format.")
		alpha       = flag.Float64("alpha", 0, "Free scaling parameter in [0, 1]; 0 keeps only valid pixels.")
		crop        = flag.Bool("crop", false, "Crop frames to the valid pixel region.")
		saveDir     = flag.String("savedir", "undistorted", "Directory for undistorted frames.")
		ext         = flag.String("ext", rectify.DefaultExt, "Output image file extension.")
		frames      = flag.Int("frames", 0, "Number of frames to write; 0 runs until interrupted.")
		metricsAddr = flag.String("metrics", "", "If set, address to serve Prometheus metrics on, e.g. :9100.")
		configPath  = flag.String("config", "", "Optional config file of \"<flag> <value>\" lines.")
		logPath     = flag.String("log", defaultLogPath, "Log file path.")
		debug       = flag.Bool("debug", false, "Log debug messages.")
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

	if *frames < 0 {
		usage(fmt.Errorf("%w: negative frame count", calib.ErrUsage))
	}
	w, h, err := calib.ParseDims(*res)
	if err != nil {
		usage(err)
	}

	m, err := calib.Load(*modelPath)
	if err != nil {
		log.Fatal("could not load camera model", "error", err)
	}
	log.Info("loaded camera model", "path", *modelPath, "calibration size", m.ImageSize)

	rect, err := rectify.NewRectifier(vision.Engine{}, m, *alpha, *crop, log)
	if errors.Is(err, rectify.ErrBadAlpha) {
		usage(err)
	}
	if err != nil {
		log.Fatal("could not create rectifier", "error", err)
	}
	namer, err := rectify.NewNamer(*saveDir, rectify.DefaultBase, *ext)
	if err != nil {
		log.Fatal("could not prepare save directory", "error", err)
	}

	var (
		dev Device
		cam *vision.Camera
	)
	if *inDir != "" {
		dev, err = newDirSource(*inDir, vision.Read, log)
		if err != nil {
			log.Fatal("could not open input directory", "error", err)
		}
	} else {
		cam = vision.NewCamera(log)
		err = cam.Configure(vision.CaptureConfig{Device: *device, Width: w, Height: h, FourCC: *fourcc})
		if err != nil {
			usage(err)
		}
		dev = cam
	}

	reg := prometheus.NewRegistry()
	met := newMetrics(reg)
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", met.handler())
			err := http.ListenAndServe(*metricsAddr, mux)
			log.Error("metrics server stopped", "error", err)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	n, err := run(ctx, dev, rect, namer, vision.Write, *frames, met, log)
	stop()
	if cam != nil {
		if err := cam.Close(); err != nil {
			log.Warning("could not close camera", "error", err)
		}
	}
	log.Info("finished", "frames", n)
	if err != nil {
		log.Fatal("undistortion failed", "error", err)
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
	fmt.Fprintf(os.Stderr, "undistort-camera: %v\n", err)
	flag.Usage()
	os.Exit(exitUsage)
}
