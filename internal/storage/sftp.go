package storage

import (
	"io"
	"os"
	"path"

	"github.com/masenocturnal/deletecontent/internal/sftp"
)

// SFTP keeps process folders on a remote host
type SFTP struct {
	transport sftp.Transport
}

// NewSFTP wraps an established transport
func NewSFTP(t sftp.Transport) *SFTP {
	return &SFTP{transport: t}
}

func (s *SFTP) ListDirectChildren(dir string) ([]string, error) {
	entries, err := s.transport.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	children := make([]string, 0, len(entries))
	for _, e := range entries {
		children = append(children, path.Join(dir, e.Name()))
	}
	return children, nil
}

func (s *SFTP) IsDirectory(p string) (bool, error) {
	info, err := s.transport.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (s *SFTP) DeleteDirectoryRecursive(dir string) error {
	return s.transport.RemoveAll(dir)
}

func (s *SFTP) DeleteFile(p string) error {
	return s.transport.RemoveFile(p)
}

func (s *SFTP) OpenFile(p string) (io.ReadCloser, error) {
	return s.transport.Open(p)
}

func (s *SFTP) CreateFile(p string) (io.WriteCloser, error) {
	return s.transport.Create(p)
}

func (s *SFTP) Rename(oldPath, newPath string) error {
	return s.transport.Rename(oldPath, newPath)
}

func (s *SFTP) Close() error {
	return s.transport.Close()
}
