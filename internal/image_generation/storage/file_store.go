package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/image_generation/domain"
	"github.com/GoSim-25-26J-441/diffusion-gateway/internal/logging"
	"github.com/google/uuid"
)

const imageExt = ".png"

// FileStore writes generated images into a single local directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Dir() string {
	return s.dir
}

// EnsureDir creates the output directory if it does not exist yet.
func (s *FileStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", s.dir, err)
	}
	return nil
}

// NewFileName returns a random, collision-free image file name.
func NewFileName() string {
	return uuid.NewString() + imageExt
}

// Save writes data under a fresh file name. The file is opened with
// O_EXCL so an existing name is never overwritten.
func (s *FileStore) Save(ctx context.Context, data []byte) (domain.StoredImage, error) {
	name := NewFileName()
	path := filepath.Join(s.dir, name)

	logger := logging.FromContextOrDiscard(ctx)
	logger.Debug("writing image", "file", path, "bytes", len(data))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return domain.StoredImage{}, fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return domain.StoredImage{}, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return domain.StoredImage{}, fmt.Errorf("close %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.StoredImage{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return domain.StoredImage{
		FileName: name,
		Path:     filepath.ToSlash(path),
		Size:     info.Size(),
	}, nil
}
