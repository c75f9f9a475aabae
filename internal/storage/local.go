package storage

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
)

// Local is the storage of the machine the daemon runs on
type Local struct{}

func (Local) ListDirectChildren(path string) ([]string, error) {
	entries, err := ioutil.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	children := make([]string, 0, len(entries))
	for _, e := range entries {
		children = append(children, filepath.Join(path, e.Name()))
	}
	return children, nil
}

func (Local) IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (Local) DeleteDirectoryRecursive(path string) error {
	return os.RemoveAll(path)
}

func (Local) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (Local) OpenFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (Local) CreateFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func (Local) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (Local) Close() error { return nil }
