package crashcsv

import (
	"context"

	"github.com/couchcryptid/crash-stats/internal/domain"
)

// FileSource reads the dataset from a path on disk.
type FileSource struct {
	Path    string
	Options Options
}

// NewFileSource creates a FileSource with the published dataset's options.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, Options: DefaultOptions()}
}

// Load reads the whole file. The context is checked before the read starts;
// the read itself is not interruptible.
func (s *FileSource) Load(ctx context.Context) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(s.Path, s.Options)
}
