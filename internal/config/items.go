// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// ErrNoItems is returned when an items file has no items key.
var ErrNoItems = errors.New("items file has no items")

// Items is the content of an items file.
type Items struct {
	Items  []any `yaml:"items"`
	Expect []any `yaml:"expect"` // Optional expected results, in item order
}

// HasExpect reports whether the file lists expected results.
func (i Items) HasExpect() bool {
	return i.Expect != nil
}

// LoadItems reads the items file at path.
func LoadItems(path string) (Items, error) {
	var it Items

	b, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return it, errors.Join(ErrReadFile, err)
	}

	if err := yaml.UnmarshalWithOptions(b, &it, yaml.DisallowUnknownField()); err != nil {
		return it, fmt.Errorf("%w: %s: %v", ErrInvalidYaml, path, err)
	}

	if it.Items == nil {
		return it, fmt.Errorf("%w: %s", ErrNoItems, path)
	}

	return it, nil
}
