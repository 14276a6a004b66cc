//go:build withcv
// +build withcv

/*
DESCRIPTION
  capture.go provides frame capture from a video device using OpenCV.

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
	"strconv"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/ausocean/camcal/pi/calib"
)

// Camera captures frames from a video device.
type Camera struct {
	cfg CaptureConfig
	vc  *gocv.VideoCapture
	log logging.Logger
}

// NewCamera returns a new, unstarted Camera.
func NewCamera(log logging.Logger) *Camera { return &Camera{log: log} }

// Configure sets the capture configuration, applying it immediately if the
// camera is started.
func (c *Camera) Configure(cfg CaptureConfig) error {
	if cfg.FourCC != "" && len(cfg.FourCC) != 4 {
		return fmt.Errorf("invalid pixel format %q", cfg.FourCC)
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return fmt.Errorf("invalid resolution %dx%d", cfg.Width, cfg.Height)
	}
	c.cfg = cfg
	if c.vc != nil {
		c.apply()
	}
	return nil
}

// Start opens the configured device.
func (c *Camera) Start() error {
	if c.vc != nil {
		return errors.New("camera already started")
	}
	var dev interface{} = c.cfg.Device
	if id, err := strconv.Atoi(c.cfg.Device); err == nil {
		dev = id
	}
	vc, err := gocv.OpenVideoCapture(dev)
	if err != nil {
		return fmt.Errorf("could not open capture device %q: %w", c.cfg.Device, err)
	}
	c.vc = vc
	c.apply()
	return nil
}

// apply sets the configured properties on the open device.
func (c *Camera) apply() {
	if c.cfg.FourCC != "" {
		c.vc.Set(gocv.VideoCaptureFOURCC, c.vc.ToCodec(c.cfg.FourCC))
	}
	if c.cfg.Width > 0 && c.cfg.Height > 0 {
		c.vc.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
		c.vc.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	}
	c.log.Info("capture configured",
		"device", c.cfg.Device,
		"width", c.vc.Get(gocv.VideoCaptureFrameWidth),
		"height", c.vc.Get(gocv.VideoCaptureFrameHeight),
	)
}

// Capture reads the next frame. The caller must close the frame.
func (c *Camera) Capture() (calib.Frame, error) {
	if c.vc == nil {
		return nil, errors.New("camera not started")
	}
	m := gocv.NewMat()
	if !c.vc.Read(&m) || m.Empty() {
		m.Close()
		return nil, fmt.Errorf("could not read from capture device %q", c.cfg.Device)
	}
	return &Image{Mat: m}, nil
}

// Stop closes the device. A stopped camera may be started again.
func (c *Camera) Stop() error {
	if c.vc == nil {
		return nil
	}
	err := c.vc.Close()
	c.vc = nil
	if err != nil {
		return fmt.Errorf("could not close capture device: %w", err)
	}
	return nil
}

// Close implements io.Closer.
func (c *Camera) Close() error { return c.Stop() }
