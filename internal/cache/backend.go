package cache

import (
	"context"
	"errors"
	"fmt"
)

// Artifact names one cached document
type Artifact string

const (
	ArtifactPosts      Artifact = "posts"
	ArtifactSignals    Artifact = "signals"
	ArtifactHistorical Artifact = "historical"
)

// Artifacts lists every artifact the store manages
var Artifacts = []Artifact{ArtifactPosts, ArtifactSignals, ArtifactHistorical}

// ErrNotFound is returned by backends when an artifact has never been written
var ErrNotFound = errors.New("artifact not found")

// Backend stores raw artifact bytes. Write replaces the whole artifact.
// ⭐ SSOT: 캐시 저장소 인터페이스 (file / postgres / redis)
type Backend interface {
	Name() string
	Exists(ctx context.Context, a Artifact) (bool, error)
	Read(ctx context.Context, a Artifact) ([]byte, error)
	Write(ctx context.Context, a Artifact, data []byte) error
}

// Cache operations reported in Error
const (
	OpRead  = "read"
	OpWrite = "write"
)

// Error is a cache read or write failure, including malformed content
type Error struct {
	Op       string
	Artifact Artifact
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Artifact, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsReadFailure reports whether err is a cache read failure
func IsReadFailure(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Op == OpRead
}

// IsWriteFailure reports whether err is a cache write failure
func IsWriteFailure(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Op == OpWrite
}

func readErr(a Artifact, err error) error {
	return &Error{Op: OpRead, Artifact: a, Err: err}
}

func writeErr(a Artifact, err error) error {
	return &Error{Op: OpWrite, Artifact: a, Err: err}
}
