package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// decodeFile parses one json5 file into dst. a missing or empty file
// reports found=false instead of an error.
func decodeFile[T any](path string, dst *T) (bool, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(raw, dst)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func localPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// ReadConfig loads <name> and merges <name>.local.<ext> over it, the
// local file wins field by field. `name` keeps its extension. when
// neither file exists the error is os.ErrNotExist.
func ReadConfig[T any](name string) (T, error) {
	var out T

	found, err := decodeFile(name, &out)
	if err != nil {
		return out, err
	}

	var override T
	local := localPath(name)
	foundLocal, err := decodeFile(local, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", local)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively walks up from the working directory to the
// filesystem root looking for a config file matching name.
func ReadRecursively[T any](name string) (T, error) {
	var none T

	dir, err := os.Getwd()
	if err != nil {
		return none, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if !os.IsNotExist(err) {
			return config, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return none, os.ErrNotExist
		}
		dir = parent
	}
}
