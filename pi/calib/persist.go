/*
DESCRIPTION
  persist.go provides saving and loading of camera models as JSON documents
  holding the fields ret, mtx, dist, rvecs and tvecs.

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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"

	"github.com/golang/geo/r3"
)

// Indentation used for saved model files.
const jsonIndent = "    "

// modelFile is the on-disk form of a Model. The ret, mtx, dist, rvecs and
// tvecs fields are shared with models written by earlier calibration tools;
// reprojection_error and image_size are optional.
type modelFile struct {
	Ret               float64         `json:"ret"`
	Mtx               [][]float64     `json:"mtx"`
	Dist              json.RawMessage `json:"dist"`
	Rvecs             []vec3          `json:"rvecs"`
	Tvecs             []vec3          `json:"tvecs"`
	ReprojectionError *float64        `json:"reprojection_error,omitempty"`
	ImageSize         []int           `json:"image_size,omitempty"`
}

// vec3 is a 3-vector that decodes from either [x,y,z] or [[x],[y],[z]].
type vec3 [3]float64

// UnmarshalJSON implements json.Unmarshaler.
func (v *vec3) UnmarshalJSON(b []byte) error {
	var flat []float64
	if json.Unmarshal(b, &flat) == nil && len(flat) == 3 {
		copy(v[:], flat)
		return nil
	}
	var nested [][]float64
	if json.Unmarshal(b, &nested) == nil && len(nested) == 3 {
		for i, e := range nested {
			if len(e) != 1 {
				return fmt.Errorf("expected 3-vector, got %s", b)
			}
			v[i] = e[0]
		}
		return nil
	}
	return fmt.Errorf("expected 3-vector, got %s", b)
}

// Save writes m to the file at path, replacing any existing file.
func Save(path string, m Model) error {
	var buf bytes.Buffer
	err := Encode(&buf, m)
	if err != nil {
		return err
	}
	err = os.WriteFile(path, buf.Bytes(), 0644)
	if err != nil {
		return fmt.Errorf("could not write model file: %w", err)
	}
	return nil
}

// Load reads a Model from the file at path. ErrFileNotFound is returned if
// path does not exist, and ErrCorruptModelFile if required fields are
// missing or malformed.
func Load(path string) (Model, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Model{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return Model{}, fmt.Errorf("could not open model file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes m to w as an indented JSON document.
func Encode(w io.Writer, m Model) error {
	dist, err := json.Marshal([][]float64{m.Distortion})
	if err != nil {
		return fmt.Errorf("could not marshal distortion coefficients: %w", err)
	}
	mf := modelFile{
		Ret:   m.RMS,
		Mtx:   make([][]float64, 3),
		Dist:  dist,
		Rvecs: make([]vec3, len(m.Poses)),
		Tvecs: make([]vec3, len(m.Poses)),
	}
	for i := range m.CameraMatrix {
		mf.Mtx[i] = m.CameraMatrix[i][:]
	}
	for i, p := range m.Poses {
		mf.Rvecs[i] = vec3{p.Rotation.X, p.Rotation.Y, p.Rotation.Z}
		mf.Tvecs[i] = vec3{p.Translation.X, p.Translation.Y, p.Translation.Z}
	}
	if m.ReprojectionError != 0 {
		e := m.ReprojectionError
		mf.ReprojectionError = &e
	}
	if m.ImageSize != (image.Point{}) {
		mf.ImageSize = []int{m.ImageSize.X, m.ImageSize.Y}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	err = enc.Encode(mf)
	if err != nil {
		return fmt.Errorf("could not encode model: %w", err)
	}
	return nil
}

// Decode reads a Model from r.
func Decode(r io.Reader) (Model, error) {
	var mf modelFile
	err := json.NewDecoder(r).Decode(&mf)
	if err != nil {
		return Model{}, fmt.Errorf("%w: %v", ErrCorruptModelFile, err)
	}

	var m Model
	m.RMS = mf.Ret

	if len(mf.Mtx) != 3 {
		return Model{}, fmt.Errorf("%w: mtx must be 3x3, got %d rows", ErrCorruptModelFile, len(mf.Mtx))
	}
	for i, row := range mf.Mtx {
		if len(row) != 3 {
			return Model{}, fmt.Errorf("%w: mtx row %d has %d columns", ErrCorruptModelFile, i, len(row))
		}
		copy(m.CameraMatrix[i][:], row)
	}

	m.Distortion, err = decodeDist(mf.Dist)
	if err != nil {
		return Model{}, err
	}

	if len(mf.Rvecs) != len(mf.Tvecs) {
		return Model{}, fmt.Errorf("%w: %d rvecs but %d tvecs", ErrCorruptModelFile, len(mf.Rvecs), len(mf.Tvecs))
	}
	for i := range mf.Rvecs {
		m.Poses = append(m.Poses, Pose{
			Rotation:    r3.Vector{X: mf.Rvecs[i][0], Y: mf.Rvecs[i][1], Z: mf.Rvecs[i][2]},
			Translation: r3.Vector{X: mf.Tvecs[i][0], Y: mf.Tvecs[i][1], Z: mf.Tvecs[i][2]},
		})
	}

	if mf.ReprojectionError != nil {
		m.ReprojectionError = *mf.ReprojectionError
	}
	switch len(mf.ImageSize) {
	case 0:
	case 2:
		m.ImageSize = image.Pt(mf.ImageSize[0], mf.ImageSize[1])
	default:
		return Model{}, fmt.Errorf("%w: image_size must be [width, height]", ErrCorruptModelFile)
	}
	return m, nil
}

// decodeDist decodes distortion coefficients from either a 1xN nested array
// or a flat array.
func decodeDist(raw json.RawMessage) ([]float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: dist is missing", ErrCorruptModelFile)
	}
	var nested [][]float64
	if json.Unmarshal(raw, &nested) == nil {
		if len(nested) != 1 || len(nested[0]) == 0 {
			return nil, fmt.Errorf("%w: dist must be a 1xN array", ErrCorruptModelFile)
		}
		return nested[0], nil
	}
	var flat []float64
	err := json.Unmarshal(raw, &flat)
	if err != nil || len(flat) == 0 {
		return nil, fmt.Errorf("%w: dist is not a numeric array", ErrCorruptModelFile)
	}
	return flat, nil
}
