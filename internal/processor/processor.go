// Package processor turns a folder or zip archive of page scans into an
// EPUB: it orders the pages, optionally detects scanner borders, converts
// every page with ImageMagick on a process pool and packs the result.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jpeg2epub/internal/archive"
	"jpeg2epub/internal/border"
	"jpeg2epub/internal/config"
	"jpeg2epub/internal/epub"
	"jpeg2epub/internal/magick"
	"jpeg2epub/internal/natural"
	"jpeg2epub/internal/pool"
	"jpeg2epub/pkg/imgutil"
)

var (
	ErrNoInput = errors.New("no input: set an input file or an input directory")
	ErrNoPages = errors.New("no JPEG pages found")

	errNotDir = errors.New("not a directory")
)

// layout is the build directory tree.
type layout struct {
	dir    string
	root   string
	images string
	unzip  string
}

func newLayout(dir string) layout {
	root := filepath.Join(dir, "epub")
	return layout{
		dir:    dir,
		root:   root,
		images: filepath.Join(root, epub.ImagesDir),
		unzip:  filepath.Join(dir, "unzip"),
	}
}

func (l layout) create() error {
	for _, d := range append(epub.Dirs(l.root), l.unzip) {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Run builds one book. updates, when non-nil, receives progress deltas and
// is not closed by Run. The returned Summary is filled as far as the build
// got, also on error.
func Run(ctx context.Context, opts Options, updates chan<- ProgressUpdate) (summary Summary, err error) {
	start := time.Now()
	var log Logger = nopLogger{}
	if opts.Logger != nil {
		log = opts.Logger
	}
	defer func() { summary.Elapsed = time.Since(start) }()

	if opts.InputFile == "" && opts.InputDir == "" {
		return summary, ErrNoInput
	}
	name := config.BookName(opts.Name, opts.InputFile, opts.InputDir)

	buildDir, err := os.MkdirTemp("", config.AppName+"-*")
	if err != nil {
		return summary, fmt.Errorf("create build dir: %w", err)
	}
	if opts.KeepBuild {
		summary.BuildDir = buildDir
		log.Info("build directory kept at %s", buildDir)
	} else {
		defer os.RemoveAll(buildDir)
	}
	dirs := newLayout(buildDir)
	if err := dirs.create(); err != nil {
		return summary, fmt.Errorf("create build dir: %w", err)
	}

	source := opts.InputDir
	if opts.InputFile != "" {
		notify(updates, ProgressUpdate{Stage: StageExtract})
		tools := archive.Tools{Unzip: opts.Tools.Unzip}
		if err := tools.Unzip(ctx, opts.InputFile, dirs.unzip); err != nil {
			return summary, err
		}
		source = dirs.unzip
	}

	notify(updates, ProgressUpdate{Stage: StageScan})
	pages, err := Discover(source)
	if err != nil {
		return summary, fmt.Errorf("read pages: %w", err)
	}
	if len(pages) == 0 {
		return summary, fmt.Errorf("%w in %s", ErrNoPages, source)
	}
	natural.SortPages(pages)
	summary.Pages = len(pages)
	notify(updates, ProgressUpdate{TotalDelta: len(pages)})
	log.Debug("found %d pages in %s", len(pages), source)

	transform := opts.Transform
	if opts.Borders {
		sample := clamp(opts.SamplePage, 0, len(pages)-1)
		path := pagePath(source, pages[sample])
		m, err := border.DetectFile(path, opts.Threshold)
		if err != nil {
			return summary, fmt.Errorf("detect borders on %s: %w", pages[sample], err)
		}
		summary.Margins = m
		transform.Cut.Top, transform.Cut.Bottom = m.Top, m.Bottom
		log.Info("borders on page %d (%s): top %d, bottom %d", sample, pages[sample], m.Top, m.Bottom)
	}
	summary.Cut = transform.Cut

	jobs := make([]pool.Job, len(pages))
	for i, p := range pages {
		src := pagePath(source, p)
		orient, err := imgutil.OrientationFile(src)
		if err != nil {
			log.Debug("orientation of %s: %v", p, err)
		}
		auto := err == nil && orient != imgutil.OrientationNormal
		if auto {
			summary.AutoOrient++
		}
		jobs[i] = pool.Job{
			Index: i,
			Argv:  magick.Args(transform, magick.Page{Index: i, Source: src, AutoOrient: auto}, dirs.images),
		}
	}

	notify(updates, ProgressUpdate{Stage: StageConvert})
	results, err := convert(ctx, opts, jobs, updates)
	for _, res := range results {
		switch {
		case res.Err == nil:
			summary.Converted++
		case !errors.Is(res.Err, pool.ErrSkipped):
			summary.Failed++
			log.Error("page %s: %v", pages[res.Index], res.Err)
		}
	}
	if err != nil {
		return summary, fmt.Errorf("convert pages: %w", err)
	}

	notify(updates, ProgressUpdate{Stage: StagePack})
	book := epub.Book{Title: name, Language: opts.Language}
	for i, p := range pages {
		book.Pages = append(book.Pages, epub.Page{Image: magick.OutputName(i, p)})
	}
	if summary.Identifier, err = epub.Write(dirs.root, book); err != nil {
		return summary, err
	}

	output := filepath.Join(opts.OutputDir, name+".epub")
	tools := archive.Tools{Zip: opts.Tools.Zip}
	if err := tools.Zip(ctx, dirs.root, output); err != nil {
		return summary, err
	}
	if abs, err := filepath.Abs(output); err == nil {
		output = abs
	}
	summary.Output = output
	return summary, nil
}

// convert runs the magick jobs, translating pool progress into pipeline
// updates.
func convert(ctx context.Context, opts Options, jobs []pool.Job, updates chan<- ProgressUpdate) ([]pool.Result, error) {
	var progress chan pool.Progress
	done := make(chan struct{})
	if updates != nil {
		progress = make(chan pool.Progress, 16)
		go func() {
			defer close(done)
			for p := range progress {
				updates <- ProgressUpdate{
					StartedDelta:   p.Started,
					FinishedDelta:  p.Finished,
					ConvertedDelta: converted(p),
					FailedDelta:    p.Failed,
				}
			}
		}()
	} else {
		close(done)
	}

	p := pool.New(pool.ExecLauncher{}, opts.Jobs)
	results, err := p.Run(ctx, opts.Tools.Magick, jobs, progress)
	if progress != nil {
		close(progress)
	}
	<-done
	return results, err
}

// converted counts clean exits. A spawn failure reports Failed without a
// matching Finished.
func converted(p pool.Progress) int {
	if p.Finished == 0 {
		return 0
	}
	return p.Finished - p.Failed
}

func notify(updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates != nil {
		updates <- u
	}
}

func pagePath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
