package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var fileNames = map[Artifact]string{
	ArtifactPosts:      "posts.csv",
	ArtifactSignals:    "signals.json",
	ArtifactHistorical: "historical.json",
}

// FileBackend keeps each artifact as a flat file in one directory.
// Writes go to a temp file that is renamed over the target, so readers
// never observe a partially written artifact.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) Name() string { return "file" }

// Path returns the file path of an artifact
func (b *FileBackend) Path(a Artifact) (string, error) {
	name, ok := fileNames[a]
	if !ok {
		return "", fmt.Errorf("unknown artifact %q", a)
	}
	return filepath.Join(b.dir, name), nil
}

func (b *FileBackend) Exists(_ context.Context, a Artifact) (bool, error) {
	path, err := b.Path(a)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *FileBackend) Read(_ context.Context, a Artifact) ([]byte, error) {
	path, err := b.Path(a)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *FileBackend) Write(_ context.Context, a Artifact, data []byte) error {
	path, err := b.Path(a)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
