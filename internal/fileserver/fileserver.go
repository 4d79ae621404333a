// Package fileserver contains utilities for writing files under a base
// directory on local disk.
package fileserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	directoryPerms = 0o755
)

var ErrPathEscapesBase = errors.New("path escapes base directory")

type FileServerInterface interface {
	Write(path string, data []byte) (fullpath string, n int, err error)
	Delete(path string) error
	BaseDirectory() string
}

type FileServer struct {
	baseDir string
}

var _ FileServerInterface = (*FileServer)(nil)

func New(baseDir string) *FileServer {
	return &FileServer{
		baseDir: baseDir,
	}
}

func (f *FileServer) BaseDirectory() string {
	return f.baseDir
}

// cleanPath resolves the relative path under the base directory and rejects
// anything that escapes it.
func (f *FileServer) cleanPath(path string) (string, error) {
	fullpath := filepath.Clean(filepath.Join(f.baseDir, path))
	base := filepath.Clean(f.baseDir)
	if fullpath != base && !strings.HasPrefix(fullpath, base+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", path, ErrPathEscapesBase)
	}
	return fullpath, nil
}

func (f *FileServer) Write(path string, data []byte) (fullpath string, n int, err error) {
	fullpath, err = f.cleanPath(path)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullpath), directoryPerms); err != nil {
		return "", 0, fmt.Errorf("creating parent directories: %w", err)
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	n, err = file.Write(data)
	if err != nil {
		return "", 0, fmt.Errorf("writing file: %w", err)
	}

	return fullpath, n, nil
}

func (f *FileServer) Delete(path string) error {
	fullpath, err := f.cleanPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullpath); err != nil {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}
