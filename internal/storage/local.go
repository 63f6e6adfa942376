package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const logsDirName = "logs"

// LocalStore implements Dropbox and Library on the local filesystem: the
// drop directory filled by the recorder, and the media tree the encoding
// pipeline reads from.
type LocalStore struct {
	dropRoot  string
	mediaRoot string
	log       *logrus.Logger
}

var (
	_ Dropbox = (*LocalStore)(nil)
	_ Library = (*LocalStore)(nil)
)

func NewLocalStore(dropRoot, mediaRoot string, log *logrus.Logger) *LocalStore {
	return &LocalStore{dropRoot: dropRoot, mediaRoot: mediaRoot, log: log}
}

func (s *LocalStore) Scan(ctx context.Context) ([]DropFile, error) {
	var files []DropFile
	err := filepath.WalkDir(s.dropRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			// The recorder writes its own logs below the drop root.
			if d.Name() == logsDirName && path != s.dropRoot {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, DropFile{Path: path, Name: d.Name()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("count", len(files)).Debug("scanned drop directory")
	return files, nil
}

func (s *LocalStore) AllocatePath(ownerID *uint, filename string, at time.Time) string {
	ownerDir := "default"
	if ownerID != nil {
		ownerDir = strconv.FormatUint(uint64(*ownerID), 10)
	}
	return filepath.Join(s.mediaRoot, "videos", ownerDir, stampedName(filename, at))
}

func (s *LocalStore) Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

// stampedName appends a filesystem-safe timestamp to the file stem:
// "abc.webm" -> "abc_2026-01-02_15-04-05.000000.webm".
func stampedName(filename string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return stem + "_" + at.Format("2006-01-02_15-04-05.000000") + ext
}
