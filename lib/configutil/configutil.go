package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

func readInto[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. `defaults`
// 2. <name>.<ext>
// 3. <name>.local.<ext>
//
// if neither file exists, `defaults` is returned alongside os.ErrNotExist.
//
// layers are merged with mergo.WithOverride, which skips zero values: a later
// layer cannot set a field back to false, 0 or "" once an earlier layer (or
// `defaults`) set it. knobs that must be switchable off belong in the layer
// that is edited, not in an override.
func ReadConfig[T any](name string, defaults T) (T, error) {
	out := defaults
	allNotFound := true

	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))

	layers := []string{
		name,
		filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefixname, ext)),
	}
	for i, path := range layers {
		var layer T
		found, err := readInto(path, &layer)
		if err != nil {
			return defaults, err
		}
		if !found {
			continue
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return defaults, err
		}
		if i > 0 {
			slog.Info("merging config with local overrides", "local", path)
		}
		allNotFound = false
	}

	if allNotFound {
		return defaults, os.ErrNotExist
	}
	return out, nil
}

// ReadConfig but it recursively goes up the filesystem from the working
// directory until the root to find a configuration file matching the name.
func ReadRecursively[T any](name string, defaults T) (T, error) {
	root, err := filepath.Abs("/")
	if err != nil {
		return defaults, err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaults, err
	}

	for {
		config, err := ReadConfig(filepath.Join(current, name), defaults)
		if errors.Is(err, os.ErrNotExist) {
			if current == root {
				return defaults, os.ErrNotExist
			}
			current = filepath.Dir(current)
			continue
		}
		return config, err
	}
}
