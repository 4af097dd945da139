package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/spigell/tessa/internal/utils"
)

// Category separates job descriptions from candidate profiles. Names are
// unique per category only.
type Category string

const (
	JobDescription Category = "jd"
	Candidate      Category = "resume"
)

func (c Category) String() string {
	switch c {
	case JobDescription:
		return "job description"
	case Candidate:
		return "resume"
	default:
		return string(c)
	}
}

// ParseCategory accepts the short names used on the command line.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jd", "jds", "job-description":
		return JobDescription, nil
	case "resume", "resumes", "candidate", "cv":
		return Candidate, nil
	}
	return "", fmt.Errorf("unknown document category %q", s)
}

// Kind is the recognised file format of an item.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "txt"
)

// KindOf reports the kind for a file name, matching the extension
// case-insensitively.
func KindOf(name string) (Kind, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return KindPDF, true
	case ".txt":
		return KindText, true
	}
	return "", false
}

// ErrSourceUnavailable is returned by List when the location does not exist.
var ErrSourceUnavailable = errors.New("document source unavailable")

// Item is one recognised document in a source.
type Item struct {
	// Name is the file stem and the key the cache stores the text under.
	Name string
	// Key addresses the item inside its source (file path or object key).
	Key  string
	Kind Kind
}

// Source enumerates and reads the raw documents of one category.
type Source interface {
	Location() string
	List(ctx context.Context) ([]Item, error)
	Read(ctx context.Context, item Item) ([]byte, error)
}

// Uploader is implemented by sources that accept new documents.
type Uploader interface {
	Put(ctx context.Context, filename string, r io.Reader, size int64) error
}

func newItem(key string) (Item, bool) {
	kind, ok := KindOf(key)
	if !ok {
		return Item{}, false
	}
	return Item{Name: utils.FileStem(key), Key: key, Kind: kind}, true
}

// sortItems orders PDFs before text files, then by key.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].Kind == KindPDF
		}
		return items[i].Key < items[j].Key
	})
}
