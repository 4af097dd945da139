package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FolderSource reads documents from a single local directory. Sub-directories
// are ignored.
type FolderSource struct {
	dir string
}

func NewFolderSource(dir string) *FolderSource {
	return &FolderSource{dir: dir}
}

func (s *FolderSource) Location() string {
	return s.dir
}

func (s *FolderSource) List(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: folder %q does not exist", ErrSourceUnavailable, s.dir)
		}
		return nil, fmt.Errorf("listing folder %q: %w", s.dir, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		item, ok := newItem(entry.Name())
		if !ok {
			continue
		}
		items = append(items, item)
	}

	sortItems(items)

	return items, nil
}

func (s *FolderSource) Read(_ context.Context, item Item) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, item.Key))
}

// Put writes a new document into the folder, replacing any file with the same name.
func (s *FolderSource) Put(_ context.Context, filename string, r io.Reader, _ int64) error {
	if _, ok := KindOf(filename); !ok {
		return fmt.Errorf("unsupported document %q: only .pdf and .txt are accepted", filename)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating folder %q: %w", s.dir, err)
	}

	target := filepath.Join(s.dir, filepath.Base(filename))
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %q: %w", target, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing %q: %w", target, err)
	}

	return f.Close()
}
