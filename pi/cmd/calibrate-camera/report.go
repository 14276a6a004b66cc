/*
DESCRIPTION
  report.go provides rendering of the calibration report.

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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ausocean/camcal/pi/calib"
	"github.com/ausocean/camcal/pi/rectify"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Mean reprojection error, in pixels, above which the result is flagged.
const poorError = 1.0

// renderReport renders r, and the refinement used for undistortion, for
// printing. names are the presented image paths, used to identify the worst
// view. Poses are included if verbose.
func renderReport(r *calib.Report, ref rectify.Refinement, names []string, verbose bool) string {
	m := r.Model
	rows := []string{
		titleStyle.Render("Camera calibration"),
		field("Images", fmt.Sprintf("%d presented, %d detected, %d skipped", r.Summary.Presented, r.Summary.Detected, r.Summary.Skipped)),
		field("Image size", fmt.Sprintf("%dx%d", m.ImageSize.X, m.ImageSize.Y)),
		field("RMS", fmt.Sprintf("%.4f", m.RMS)),
		field("Mean error", errorText(m.ReprojectionError)),
		field("Median error", fmt.Sprintf("%.4f px", r.MedianError)),
		field("Max error", fmt.Sprintf("%.4f px (view %d%s)", r.MaxError, r.WorstView, viewName(names, r))),
		headingStyle.Render("Camera matrix"),
		matrix(m.CameraMatrix),
		headingStyle.Render("Distortion"),
		floatsText(m.Distortion),
		headingStyle.Render(fmt.Sprintf("Optimal camera matrix (alpha %g)", ref.Alpha)),
		matrix(ref.CameraMatrix),
		field("ROI", fmt.Sprintf("%v", ref.ROI)),
	}

	if verbose {
		rows = append(rows, headingStyle.Render("Poses"))
		for i, p := range m.Poses {
			rows = append(rows, field(fmt.Sprintf("View %d", i),
				fmt.Sprintf("r %s  t %s",
					floatsText([]float64{p.Rotation.X, p.Rotation.Y, p.Rotation.Z}),
					floatsText([]float64{p.Translation.X, p.Translation.Y, p.Translation.Z}),
				),
			))
		}
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func errorText(e float64) string {
	s := fmt.Sprintf("%.4f px", e)
	if e > poorError {
		return warnStyle.Render(s + " (poor)")
	}
	return s
}

// viewName returns the file name of the worst view, if known.
func viewName(names []string, r *calib.Report) string {
	// Views are numbered over detected images only, so names can only be
	// matched when nothing was skipped.
	if r.Summary.Skipped != 0 || r.WorstView >= len(names) {
		return ""
	}
	return ", " + filepath.Base(names[r.WorstView])
}

func matrix(k [3][3]float64) string {
	lines := make([]string, 3)
	for i, row := range k {
		lines[i] = fmt.Sprintf("%12.4f %12.4f %12.4f", row[0], row[1], row[2])
	}
	return strings.Join(lines, "\n")
}

func floatsText(v []float64) string {
	s := make([]string, len(v))
	for i, f := range v {
		s[i] = fmt.Sprintf("%.6g", f)
	}
	return "[" + strings.Join(s, ", ") + "]"
}
