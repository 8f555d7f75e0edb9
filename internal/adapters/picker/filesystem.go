package picker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/ports"
)

// FileSystemSource resolves user-supplied paths on the local disk
type FileSystemSource struct {
	detect func(path string) string
}

// NewFileSystemSource creates a new file system source
func NewFileSystemSource() *FileSystemSource {
	return &FileSystemSource{detect: DetectType}
}

var _ ports.FileSource = (*FileSystemSource)(nil)

// Expand turns paths into a flat file list. Plain files are kept in argument
// order; each directory contributes its files recursively in lexical order,
// skipping hidden entries.
func (s *FileSystemSource) Expand(ctx context.Context, paths []string) ([]domain.SelectedFile, error) {
	var files []domain.SelectedFile

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			files = append(files, s.describe(p, info))
			continue
		}

		found, err := s.walk(ctx, p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	return files, nil
}

// Candidates lists every visible regular file under root, for interactive pickers
func (s *FileSystemSource) Candidates(ctx context.Context, root string) ([]domain.SelectedFile, error) {
	return s.walk(ctx, root)
}

func (s *FileSystemSource) walk(ctx context.Context, root string) ([]domain.SelectedFile, error) {
	var files []domain.SelectedFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, s.describe(path, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	return files, nil
}

func (s *FileSystemSource) describe(path string, info fs.FileInfo) domain.SelectedFile {
	return domain.SelectedFile{
		Name:     info.Name(),
		Path:     path,
		MIMEType: s.detect(path),
		Size:     info.Size(),
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
