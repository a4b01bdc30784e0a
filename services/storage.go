package services

import (
	"context"
	"io"
)

// Storage kinds carried on each StorageRef and persisted with the file
// record, so records written by one backend survive a backend switch.
const (
	StorageKindPath = "path"
	StorageKindS3   = "s3"
)

// StorageRef identifies one stored object for later retrieval or deletion.
type StorageRef struct {
	Kind string
	Key  string
}

// StorageBackend persists raw file bytes. The placement layer is
// indifferent to which implementation is active.
//
// Store either makes the object fully retrievable or fails; there is no
// partially written state. Delete of an already-absent object succeeds,
// since cleanup races are expected. Resolve returns something the HTTP
// layer can serve: a filesystem path for local storage, a presigned URL
// for S3.
type StorageBackend interface {
	Store(ctx context.Context, r io.Reader, size int64, contentType, originalName string) (StorageRef, error)
	Delete(ctx context.Context, ref StorageRef) error
	Resolve(ctx context.Context, ref StorageRef) (string, error)
	Kind() string
}
