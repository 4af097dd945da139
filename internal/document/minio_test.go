package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
)

type fakeStore struct {
	exists  bool
	objects []minio.ObjectInfo
	listErr error

	putKey         string
	putContentType string
	putBody        []byte
}

func (f *fakeStore) BucketExists(context.Context, string) (bool, error) {
	return f.exists, nil
}

func (f *fakeStore) ListObjects(_ context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(f.objects)+1)
	for _, object := range f.objects {
		if len(object.Key) >= len(opts.Prefix) && object.Key[:len(opts.Prefix)] == opts.Prefix {
			ch <- object
		}
	}
	if f.listErr != nil {
		ch <- minio.ObjectInfo{Err: f.listErr}
	}
	close(ch)
	return ch
}

func (f *fakeStore) GetObject(context.Context, string, string, minio.GetObjectOptions) (*minio.Object, error) {
	return nil, errors.New("not used")
}

func (f *fakeStore) PutObject(_ context.Context, _ string, object string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.putKey = object
	f.putContentType = opts.ContentType
	f.putBody = body
	return minio.UploadInfo{Key: object}, nil
}

func TestMinIOSourceList(t *testing.T) {
	t.Parallel()

	store := &fakeStore{exists: true, objects: []minio.ObjectInfo{
		{Key: "resumes/bob.txt"},
		{Key: "resumes/alice.pdf"},
		{Key: "resumes/archive/"},
		{Key: "resumes/archive/old.txt"},
		{Key: "resumes/photo.png"},
		{Key: "jds/backend.txt"},
	}}

	items, err := newMinIOSource(store, "tessa", "resumes/").List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %+v", items)
	}
	if items[0].Name != "alice" || items[0].Key != "resumes/alice.pdf" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Name != "bob" || items[1].Kind != KindText {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestMinIOSourceMissingBucket(t *testing.T) {
	t.Parallel()

	_, err := newMinIOSource(&fakeStore{}, "tessa", "jds/").List(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestMinIOSourceListError(t *testing.T) {
	t.Parallel()

	store := &fakeStore{exists: true, listErr: errors.New("access denied")}
	if _, err := newMinIOSource(store, "tessa", "jds/").List(context.Background()); err == nil {
		t.Fatalf("expected listing error")
	}
}

func TestMinIOSourcePut(t *testing.T) {
	t.Parallel()

	store := &fakeStore{exists: true}
	src := newMinIOSource(store, "tessa", "jds/")

	if err := src.Put(context.Background(), "local/dir/backend.pdf", bytes.NewBufferString("%PDF"), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.putKey != "jds/backend.pdf" || store.putContentType != "application/pdf" || string(store.putBody) != "%PDF" {
		t.Fatalf("unexpected upload: key=%q type=%q body=%q", store.putKey, store.putContentType, store.putBody)
	}

	if src.Location() != "s3://tessa/jds" {
		t.Fatalf("unexpected location %q", src.Location())
	}
}
