/*
DESCRIPTION
  run.go provides the calibration run: detection over the image directory,
  solving, evaluation, saving, reporting and undistortion of the images.

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
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/rectify"
)

// run calibrates from the images in cfg.imgDir and writes the model, report,
// plots and undistorted images. If ctx is cancelled during collection, run
// calibrates on the views found so far when there are at least
// calib.MinViews of them, and otherwise returns without error. Cancellation
// after calibration stops undistortion, keeping anything already written.
func run(ctx context.Context, cfg config, p pipeline, out io.Writer, log logging.Logger) error {
	names, err := listImages(cfg.imgDir, cfg.exts)
	if err != nil {
		return err
	}
	log.Info("found calibration images", "dir", cfg.imgDir, "count", len(names))

	acc, sum, err := calib.Collect(ctx, names, p.open, p.det, cfg.spec, log)
	if err != nil {
		return fmt.Errorf("could not collect observations: %w", err)
	}
	if ctx.Err() != nil {
		if acc.Len() < calib.MinViews {
			log.Info("interrupted before calibration", "detected", acc.Len())
			return nil
		}
		log.Info("interrupted, calibrating on partial set", "detected", acc.Len())
	}
	log.Info("collected observations", "presented", sum.Presented, "detected", sum.Detected, "skipped", sum.Skipped)

	obs := acc.Observations()
	m, poses, err := calib.Solve(obs, sum.ImageSize, p.opt)
	if err != nil {
		return fmt.Errorf("could not calibrate: %w", err)
	}
	mean, perView, err := calib.Evaluate(obs, m, poses)
	if err != nil {
		return fmt.Errorf("could not evaluate calibration: %w", err)
	}
	m.ReprojectionError = mean
	log.Info("calibrated", "rms", m.RMS, "reprojection error", mean)

	err = calib.Save(cfg.modelPath, m)
	if err != nil {
		return fmt.Errorf("could not save camera model: %w", err)
	}
	log.Info("saved camera model", "path", cfg.modelPath)

	r, err := calib.NewReport(sum, m, perView)
	if err != nil {
		return fmt.Errorf("could not create report: %w", err)
	}
	rect, err := rectify.NewRectifier(p.engine, m, cfg.alpha, cfg.crop, log)
	if err != nil {
		return err
	}
	ref, err := rect.Refinement(sum.ImageSize)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderReport(r, ref, names, cfg.verbose))

	if cfg.plotDir != "" {
		err = plot(cfg.plotDir, r, obs, poses)
		if err != nil {
			log.Warning("could not write plots", "error", err)
		}
	}

	if !cfg.rectify {
		return nil
	}
	n, err := undistortAll(ctx, names, cfg, p, rect, log)
	log.Info("wrote undistorted images", "dir", cfg.saveDir, "count", n)
	return err
}

// plot writes the reprojection error and residual plots to dir.
func plot(dir string, r *calib.Report, obs []calib.Observation, poses []calib.Pose) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("could not create plot directory: %w", err)
	}
	err = calib.PlotErrors(dir, r)
	if err != nil {
		return err
	}
	return calib.PlotResiduals(dir, obs, r.Model, poses)
}

// undistortAll writes an undistorted copy of each named image to
// cfg.saveDir and returns the number written.
func undistortAll(ctx context.Context, names []string, cfg config, p pipeline, rect *rectify.Rectifier, log logging.Logger) (int, error) {
	namer, err := rectify.NewNamer(cfg.saveDir, rectify.DefaultBase, cfg.exts[0])
	if err != nil {
		return 0, err
	}
	for _, name := range names {
		if ctx.Err() != nil {
			log.Info("undistortion interrupted")
			return namer.Count(), nil
		}
		path := namer.Next()
		err = undistortOne(name, path, p, rect)
		if err != nil {
			return namer.Count() - 1, err
		}
		log.Debug("wrote undistorted image", "src", name, "dst", path)
	}
	return namer.Count(), nil
}

// undistortOne undistorts the image named src and writes it to dst.
func undistortOne(src, dst string, p pipeline, rect *rectify.Rectifier) error {
	f, err := p.open(src)
	if err != nil {
		return fmt.Errorf("could not open image %s: %w", src, err)
	}
	defer f.Close()

	out, _, err := rect.Rectify(f)
	if err != nil {
		return fmt.Errorf("could not undistort %s: %w", src, err)
	}
	defer out.Close()

	err = p.write(dst, out)
	if err != nil {
		return fmt.Errorf("could not write %s: %w", dst, err)
	}
	return nil
}
