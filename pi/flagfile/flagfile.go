/*
DESCRIPTION
  flagfile.go provides setting of command line flags from a config file.

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

// Package flagfile sets command line flags from a config file of
// newline separated "name value" records, the format used for device
// config files. Flags given on the command line take precedence.
package flagfile

import (
	"flag"
	"fmt"
	"sort"

	"github.com/ausocean/utils/filemap"
)

// Record and field separators.
const (
	recordSep = "\n"
	fieldSep  = " "
)

// Apply sets each flag of fs named in the config file at path to the file's
// value, unless the flag was set explicitly. fs must already be parsed. An
// unknown name or an invalid value is an error. The names of the flags set
// are returned.
func Apply(fs *flag.FlagSet, path string) ([]string, error) {
	config, err := filemap.ReadFrom(path, recordSep, fieldSep)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	names := make([]string, 0, len(config))
	for name := range config {
		names = append(names, name)
	}
	sort.Strings(names)

	var set []string
	for _, name := range names {
		if name == "" {
			continue
		}
		if fs.Lookup(name) == nil {
			return set, fmt.Errorf("unknown config parameter %q", name)
		}
		if explicit[name] {
			continue
		}
		err = fs.Set(name, config[name])
		if err != nil {
			return set, fmt.Errorf("invalid value for config parameter %q: %w", name, err)
		}
		set = append(set, name)
	}
	return set, nil
}

// Write writes the current values of the named flags of fs to the config file
// at path, in the given order.
func Write(fs *flag.FlagSet, path string, names []string) error {
	config := make(map[string]string, len(names))
	for _, name := range names {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		config[name] = f.Value.String()
	}
	return filemap.WriteTo(path, recordSep, fieldSep, config, names)
}
