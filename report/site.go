package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dhamidi/cobertura/coverage"
	"golang.org/x/sync/errgroup"
)

// WriteSite writes a static report into dir: index.html, class.js and one
// page per class. Class pages are rendered concurrently.
func (r *Renderer) WriteSite(ctx context.Context, dir string, doc *coverage.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "class.js"), Script(), 0o644); err != nil {
		return fmt.Errorf("write class.js: %w", err)
	}
	if err := writeFile(filepath.Join(dir, "index.html"), func(w io.Writer) error {
		return r.RenderIndex(w, doc)
	}); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, page := range Pages(doc) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeFile(filepath.Join(dir, page.Name+".html"), func(w io.Writer) error {
				return r.RenderClass(w, page.Package, page.Class)
			})
		})
	}
	return g.Wait()
}

func writeFile(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := render(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	logger().Debugf("wrote %s", path)
	return f.Close()
}
