/*
DESCRIPTION
  plot.go provides plotting of calibration results.

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
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot names, also used as file names.
const (
	errorPlotName    = "Reprojection Error"
	residualPlotName = "Reprojection Residuals"
)

// PlotErrors plots the per view reprojection errors of r, with the mean
// error as a reference line, and saves the plot as a PNG in dir.
func PlotErrors(dir string, r *Report) error {
	views := make([]float64, len(r.PerView))
	mean := make([]float64, len(r.PerView))
	for i := range views {
		views[i] = float64(i)
		mean[i] = r.Model.ReprojectionError
	}

	err := plotToFile(
		dir,
		errorPlotName,
		"View",
		"Error (px)",
		func(p *plot.Plot) error {
			return plotutil.AddLinePoints(p,
				"per view", plotterXY(views, r.PerView),
				"mean", plotterXY(views, mean),
			)
		},
	)
	if err != nil {
		return fmt.Errorf("could not plot reprojection errors: %w", err)
	}
	return nil
}

// PlotResiduals plots the pixel residuals (observed minus projected) of all
// observations as a scatter and saves the plot as a PNG in dir.
func PlotResiduals(dir string, obs []Observation, m Model, poses []Pose) error {
	if len(poses) != len(obs) {
		return fmt.Errorf("have %d poses for %d observations", len(poses), len(obs))
	}
	var dx, dy []float64
	for i, o := range obs {
		projected := Project(o.Pattern, poses[i], m)
		for j, p := range o.Pixels {
			dx = append(dx, p.X-projected[j].X)
			dy = append(dy, p.Y-projected[j].Y)
		}
	}

	err := plotToFile(
		dir,
		residualPlotName,
		"dx (px)",
		"dy (px)",
		func(p *plot.Plot) error {
			s, err := plotter.NewScatter(plotterXY(dx, dy))
			if err != nil {
				return err
			}
			p.Add(s, plotter.NewGrid())
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("could not plot reprojection residuals: %w", err)
	}
	return nil
}

// plotToFile draws a titled plot with draw and saves it as dir/<title>.png.
func plotToFile(dir, title, xLabel, yLabel string, draw func(*plot.Plot) error) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	err := draw(p)
	if err != nil {
		return fmt.Errorf("could not draw plot contents: %w", err)
	}

	const side = 15 * vg.Centimeter
	err = p.Save(side, side, filepath.Join(dir, title+".png"))
	if err != nil {
		return fmt.Errorf("could not save plot: %w", err)
	}
	return nil
}

// plotterXY pairs x and y into plotter points. y must be at least as long
// as x.
func plotterXY(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i, v := range x {
		pts[i] = plotter.XY{X: v, Y: y[i]}
	}
	return pts
}
