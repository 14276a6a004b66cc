/*
DESCRIPTION
  flagfile_test.go provides testing for functionality in flagfile.go.

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

package flagfile

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type flags struct {
	fs    *flag.FlagSet
	board *string
	alpha *float64
	crop  *bool
}

func newFlags() flags {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return flags{
		fs:    fs,
		board: fs.String("board", "9x6", ""),
		alpha: fs.Float64("alpha", 1, ""),
		crop:  fs.Bool("crop", true, ""),
	}
}

func writeConfig(t *testing.T, s string) string {
	path := filepath.Join(t.TempDir(), "camcal.conf")
	err := os.WriteFile(path, []byte(s), 0644)
	if err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	return path
}

func TestApply(t *testing.T) {
	path := writeConfig(t, "board 7x5\nalpha 0.5\ncrop false\n")

	tests := []struct {
		args      []string
		wantBoard string
		wantAlpha float64
		wantSet   []string
	}{
		{args: nil, wantBoard: "7x5", wantAlpha: 0.5, wantSet: []string{"alpha", "board", "crop"}},
		{args: []string{"-board", "11x8"}, wantBoard: "11x8", wantAlpha: 0.5, wantSet: []string{"alpha", "crop"}},
		{args: []string{"-alpha", "0", "-board", "9x6"}, wantBoard: "9x6", wantAlpha: 0, wantSet: []string{"crop"}},
	}

	for i, test := range tests {
		f := newFlags()
		err := f.fs.Parse(test.args)
		if err != nil {
			t.Fatalf("could not parse args for test %d: %v", i, err)
		}
		set, err := Apply(f.fs, path)
		if err != nil {
			t.Errorf("unexpected error for test %d: %v", i, err)
			continue
		}
		if *f.board != test.wantBoard || *f.alpha != test.wantAlpha || *f.crop {
			t.Errorf("did not get expected flags for test %d. Got: %s %v %v", i, *f.board, *f.alpha, *f.crop)
		}
		if d := cmp.Diff(test.wantSet, set); d != "" {
			t.Errorf("did not get expected set flags for test %d (-want +got):\n%s", i, d)
		}
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "unknown", config: "boards 9x6\n"},
		{name: "invalid", config: "alpha lots\n"},
	}
	for _, test := range tests {
		f := newFlags()
		f.fs.Parse(nil)
		_, err := Apply(f.fs, writeConfig(t, test.config))
		if err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}

	f := newFlags()
	f.fs.Parse(nil)
	_, err := Apply(f.fs, filepath.Join(t.TempDir(), "missing.conf"))
	if err == nil {
		t.Errorf("expected error for missing config file")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camcal.conf")
	f := newFlags()
	f.fs.Parse([]string{"-board", "8x5", "-alpha", "0.25"})
	err := Write(f.fs, path, []string{"board", "alpha"})
	if err != nil {
		t.Fatalf("could not write config: %v", err)
	}

	g := newFlags()
	g.fs.Parse(nil)
	_, err = Apply(g.fs, path)
	if err != nil {
		t.Fatalf("could not apply written config: %v", err)
	}
	if *g.board != "8x5" || *g.alpha != 0.25 {
		t.Errorf("did not get expected flags from written config. Got: %s %v", *g.board, *g.alpha)
	}
}
