// Package archive extracts page archives and packs the EPUB container with
// the system zip and unzip tools.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"jpeg2epub/internal/pool"
)

// MimetypeFile must be the first, uncompressed entry of an EPUB archive.
const MimetypeFile = "mimetype"

// Tools names the binaries used for archive work.
type Tools struct {
	Zip   string
	Unzip string
}

// Unzip extracts archivePath into destDir.
func (t Tools) Unzip(ctx context.Context, archivePath, destDir string) error {
	if _, err := os.Stat(archivePath); err != nil {
		return fmt.Errorf("archive %s: %w", archivePath, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	if err := run(ctx, "", t.Unzip, "-q", "-o", archivePath, "-d", destDir); err != nil {
		return fmt.Errorf("unzip %s: %w", archivePath, err)
	}
	return nil
}

// Zip packs the directory tree at root into outFile as an EPUB container.
// The tool runs with root as its working directory so entry names are
// relative to it; the calling process's directory is left alone. An existing
// outFile is replaced.
func (t Tools) Zip(ctx context.Context, root, outFile string) error {
	out, err := filepath.Abs(outFile)
	if err != nil {
		return err
	}
	if err := os.Remove(out); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replace %s: %w", out, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	if err := run(ctx, root, t.Zip, "-X", "-0", "-q", out, MimetypeFile); err != nil {
		return fmt.Errorf("zip %s: %w", MimetypeFile, err)
	}
	if err := run(ctx, root, t.Zip, "-X", "-r", "-9", "-q", out, ".", "-x", MimetypeFile); err != nil {
		return fmt.Errorf("zip %s: %w", root, err)
	}
	return nil
}

func run(ctx context.Context, dir, bin string, args ...string) error {
	proc, err := pool.ExecLauncher{Dir: dir}.Start(ctx, bin, args)
	if err != nil {
		return err
	}
	return proc.Wait()
}
