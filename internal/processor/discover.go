package processor

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"jpeg2epub/pkg/imgutil"
)

// Discover returns the JPEG pages below root as slash-separated paths
// relative to root. Files need a .jpg or .jpeg extension and a JPEG header;
// hidden entries and __MACOSX folders are skipped. The order is the walk
// order; callers sort.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "discover", Path: root, Err: errNotDir}
	}

	var pages []string
	err = fs.WalkDir(os.DirFS(root), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()
		if path != "." && (strings.HasPrefix(name, ".") || name == "__MACOSX") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if imgutil.KindFromExt(name) != imgutil.KindJPEG {
			return nil
		}

		kind, err := imgutil.SniffFile(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil || kind != imgutil.KindJPEG {
			return nil
		}
		pages = append(pages, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}
