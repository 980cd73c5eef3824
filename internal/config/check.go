package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Check is the outcome of one environment probe.
type Check struct {
	Name   string
	Detail string
	Err    error
}

// RunChecks verifies that the external tools are executable and that the
// temp and config directories are writable. It never stops early.
func RunChecks(s Settings, cfgDir string) []Check {
	var out []Check
	for _, tool := range []struct{ name, bin string }{
		{"zip", s.Zip},
		{"unzip", s.Unzip},
		{"magick", s.Magick},
	} {
		c := Check{Name: tool.name}
		path, err := exec.LookPath(tool.bin)
		if err != nil {
			c.Err = fmt.Errorf("%s could not be found or is not executable", tool.bin)
		} else {
			c.Detail = path
		}
		out = append(out, c)
	}

	tmp := os.TempDir()
	out = append(out, Check{Name: "temp dir", Detail: tmp, Err: writable(tmp, false)})
	out = append(out, Check{Name: "config dir", Detail: cfgDir, Err: writable(cfgDir, true)})
	return out
}

// FirstFailure returns the first failed check as an error, or nil.
func FirstFailure(checks []Check) error {
	for _, c := range checks {
		if c.Err != nil {
			return fmt.Errorf("%s: %w", c.Name, c.Err)
		}
	}
	return nil
}

func writable(dir string, create bool) error {
	if create {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("directory %s cannot be created: %w", dir, err)
		}
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("directory %s doesn't exist", dir)
		}
		return fmt.Errorf("directory %s is read-only", dir)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
