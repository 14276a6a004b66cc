/*
DESCRIPTION
  report.go provides the Report type summarising a calibration run.

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

	"github.com/montanaflynn/stats"
)

// Report summarises a calibration run.
type Report struct {
	Summary     Summary
	Model       Model
	PerView     []float64 // Reprojection error of each observation.
	MedianError float64
	MaxError    float64
	WorstView   int // Index of the observation with the largest error.
}

// NewReport returns a Report for the given collection summary, fitted model
// and per observation reprojection errors.
func NewReport(sum Summary, m Model, perView []float64) (*Report, error) {
	if len(perView) == 0 {
		return nil, fmt.Errorf("%w: no per view errors", ErrInsufficientObservations)
	}
	med, err := stats.Median(perView)
	if err != nil {
		return nil, fmt.Errorf("could not get median error: %w", err)
	}
	max, err := stats.Max(perView)
	if err != nil {
		return nil, fmt.Errorf("could not get max error: %w", err)
	}
	worst := 0
	for i, e := range perView {
		if e == max {
			worst = i
			break
		}
	}
	return &Report{
		Summary:     sum,
		Model:       m.Clone(),
		PerView:     append([]float64(nil), perView...),
		MedianError: med,
		MaxError:    max,
		WorstView:   worst,
	}, nil
}
