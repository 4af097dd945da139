package cmd

import (
	"strings"
	"testing"

	"github.com/spigell/tessa/internal/config"
	"github.com/spigell/tessa/internal/document"
)

func TestNewSourcesFolder(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Folders: config.FoldersConfig{JobDescriptions: "data/JDs", Resumes: "data/Resumes"},
		Source:  config.SourceConfig{Type: config.SourceFolder},
	}

	jds, resumes, err := newSources(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jds.Location() != "data/JDs" || resumes.Location() != "data/Resumes" {
		t.Fatalf("unexpected locations %q and %q", jds.Location(), resumes.Location())
	}
	if _, ok := jds.(document.Uploader); !ok {
		t.Fatalf("folder source must accept uploads")
	}
}

func TestNewSourcesMinIO(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Source: config.SourceConfig{
			Type: config.SourceMinIO,
			MinIO: config.MinIOConfig{
				Endpoint:              "localhost:9000",
				Bucket:                "tessa",
				AccessKey:             "minio",
				SecretKey:             "minio123",
				JobDescriptionsPrefix: "jds/",
				ResumesPrefix:         "resumes/",
			},
		},
	}

	jds, resumes, err := newSources(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jds.Location() != "s3://tessa/jds" || resumes.Location() != "s3://tessa/resumes" {
		t.Fatalf("unexpected locations %q and %q", jds.Location(), resumes.Location())
	}
}

func TestNewSourcesMinIOMissingSecretFile(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Source: config.SourceConfig{
			Type: config.SourceMinIO,
			MinIO: config.MinIOConfig{
				Endpoint:      "localhost:9000",
				Bucket:        "tessa",
				SecretKeyFile: t.TempDir() + "/missing",
			},
		},
	}

	_, _, err := newSources(cfg)
	if err == nil || !strings.Contains(err.Error(), "minio secret key") {
		t.Fatalf("expected secret file error, got %v", err)
	}
}
