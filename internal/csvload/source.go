package csvload

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"yamdb/pkg/s3"
)

// Source yields the CSV files of a data set by name. A missing file is
// reported as fs.ErrNotExist.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// DirSource reads files from a local directory.
type DirSource string

func (d DirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(string(d), name))
}

// ObjectStore is the part of *s3.Client the loader needs.
type ObjectStore interface {
	Open(prefix, name string) (io.ReadCloser, error)
	Exists(prefix, name string) (bool, error)
}

var _ ObjectStore = (*s3.Client)(nil)

// S3Source reads files stored under a bucket prefix.
type S3Source struct {
	Store  ObjectStore
	Prefix string
}

func (s S3Source) Open(name string) (io.ReadCloser, error) {
	ok, err := s.Store.Exists(s.Prefix, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", s.Prefix, name, fs.ErrNotExist)
	}
	return s.Store.Open(s.Prefix, name)
}
