// Package config loads optional CLI defaults from a TOML file. A missing
// file yields the zero configuration; command-line flags always win over
// file values.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that unmarshals from a TOML string such as
// "2s" or "150ms".
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// File holds the defaults the CLI reads from lolmark.toml.
type File struct {
	// Output is the default output file name.
	Output string `toml:"output"`
	// Open is a command run on the generated file, split according to
	// the Bourne shell's word-splitting rules.
	Open string `toml:"open"`
	// Timeout bounds HTML generation.
	Timeout Duration `toml:"timeout"`
}

// Load reads the configuration at path. A nonexistent file is not an
// error.
func Load(path string) (*File, error) {
	var f File
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &f, nil
		}
		return nil, err
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &f, nil
}
