package storage

import (
	"context"
	"time"
)

// DropFile is a candidate recording file found in the drop directory.
type DropFile struct {
	Path string // absolute path
	Name string // base name, e.g. "f4a9b2….webm"
}

// Dropbox lists finished recording files waiting for ingestion.
type Dropbox interface {
	// Scan walks the drop directory, skipping any subdirectory named "logs".
	Scan(ctx context.Context) ([]DropFile, error)
}

// Library places ingested files into the video pipeline's storage tree.
type Library interface {
	// AllocatePath returns the destination path for a new asset file. The
	// filename is disambiguated with the given timestamp so repeated ingests
	// of the same recording cannot collide.
	AllocatePath(ownerID *uint, filename string, at time.Time) string
	Move(src, dst string) error
}
