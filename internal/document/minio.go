package document

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectStore is the part of *minio.Client the source needs.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type MinIOOptions struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// MinIOSource reads documents stored under a key prefix of an S3 compatible bucket.
type MinIOSource struct {
	store  objectStore
	bucket string
	prefix string
	// read fetches an object body; overridden in tests since *minio.Object
	// cannot be constructed outside the client.
	read func(ctx context.Context, key string) ([]byte, error)
}

// NewMinIOClient connects to the object store described by opts.
func NewMinIOClient(opts MinIOOptions) (*minio.Client, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client for %s: %w", opts.Endpoint, err)
	}
	return client, nil
}

func NewMinIOSource(client *minio.Client, bucket, prefix string) *MinIOSource {
	return newMinIOSource(client, bucket, prefix)
}

func newMinIOSource(store objectStore, bucket, prefix string) *MinIOSource {
	s := &MinIOSource{store: store, bucket: bucket, prefix: prefix}
	s.read = s.getObject
	return s
}

func (s *MinIOSource) Location() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

func (s *MinIOSource) List(ctx context.Context) ([]Item, error) {
	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", s.bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: bucket %q does not exist", ErrSourceUnavailable, s.bucket)
	}

	var items []Item
	for object := range s.store.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix}) {
		if object.Err != nil {
			return nil, fmt.Errorf("listing %s: %w", s.Location(), object.Err)
		}
		// Only direct children of the prefix, like a folder listing.
		if strings.HasSuffix(object.Key, "/") || strings.Contains(strings.TrimPrefix(object.Key, s.prefix), "/") {
			continue
		}
		item, ok := newItem(object.Key)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	sortItems(items)

	return items, nil
}

func (s *MinIOSource) Read(ctx context.Context, item Item) ([]byte, error) {
	return s.read(ctx, item.Key)
}

func (s *MinIOSource) getObject(ctx context.Context, key string) ([]byte, error) {
	object, err := s.store.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting object %s/%s: %w", s.bucket, key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("reading object %s/%s: %w", s.bucket, key, err)
	}

	return data, nil
}

// Put uploads a document under the source prefix.
func (s *MinIOSource) Put(ctx context.Context, filename string, r io.Reader, size int64) error {
	kind, ok := KindOf(filename)
	if !ok {
		return fmt.Errorf("unsupported document %q: only .pdf and .txt are accepted", filename)
	}

	contentType := "text/plain"
	if kind == KindPDF {
		contentType = "application/pdf"
	}

	key := s.prefix + path.Base(filename)
	if _, err := s.store.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("uploading %s/%s: %w", s.bucket, key, err)
	}

	return nil
}
