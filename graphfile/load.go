// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/pipeline/base/errors"
	"cogentcore.org/pipeline/task"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a graph file.
type Format int32

const (
	// YAML is the YAML encoding, used for .yaml and .yml files.
	YAML Format = iota

	// TOML is the TOML encoding, used for .toml files.
	TOML
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// FormatForPath returns the [Format] for the extension of path.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("graphfile: unsupported file extension %q", filepath.Ext(path))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode decodes a graph file in the given format and validates it.
func Decode(data []byte, f Format) (*Node, error) {
	n := &Node{}
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(n); err != nil {
			return nil, fmt.Errorf("graphfile: decode yaml: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(n); err != nil {
			return nil, fmt.Errorf("graphfile: decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("graphfile: unknown format %v", f)
	}
	if err := Validate(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks the required fields of n and its descendants.
func Validate(n *Node) error {
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("graphfile: invalid graph %q: %w", n.Name, err)
	}
	return nil
}

// Open reads and decodes the graph file at path,
// choosing the format by its extension. A leading ~ in path
// is expanded to the home directory.
func Open(path string) (*Node, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	f, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Load opens the graph file at path and builds its task tree.
func Load(path string, r *Registry) (task.Task, error) {
	n, err := Open(path)
	if err != nil {
		return nil, err
	}
	return Build(r, n)
}

// Encode encodes n in the given format.
func Encode(n *Node, f Format) ([]byte, error) {
	switch f {
	case YAML:
		return yaml.Marshal(n)
	case TOML:
		return toml.Marshal(n)
	}
	return nil, errors.New("graphfile: unknown format " + f.String())
}
