/*
DESCRIPTION
  namer.go provides sequential naming of output images.

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

package rectify

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default output naming.
const (
	DefaultBase = "undistorted"
	DefaultExt  = "png"
)

// Namer generates output file names of the form <dir>/<base>_<n>.<ext>,
// with n counting up from 1.
type Namer struct {
	Dir  string
	Base string
	Ext  string
	n    int
}

// NewNamer returns a Namer writing into dir, creating dir if needed. Empty
// base and ext take the defaults.
func NewNamer(dir, base, ext string) (*Namer, error) {
	if base == "" {
		base = DefaultBase
	}
	if ext == "" {
		ext = DefaultExt
	}
	if dir != "" {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("could not create output directory: %w", err)
		}
	}
	return &Namer{Dir: dir, Base: base, Ext: ext}, nil
}

// Next returns the next file name.
func (n *Namer) Next() string {
	n.n++
	return filepath.Join(n.Dir, fmt.Sprintf("%s_%d.%s", n.Base, n.n, n.Ext))
}

// Count returns the number of names generated.
func (n *Namer) Count() int { return n.n }
