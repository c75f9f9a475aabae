// Package storage provides the filesystem operations the deletion tasks run against.
// Paths that don't exist are never an error: listing them yields nothing and
// deleting them succeeds.
package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/masenocturnal/deletecontent/internal/sftp"
	log "github.com/sirupsen/logrus"
)

// Backend is a filesystem holding process folders
type Backend interface {
	ListDirectChildren(path string) ([]string, error)
	IsDirectory(path string) (bool, error)
	DeleteDirectoryRecursive(path string) error
	DeleteFile(path string) error
	OpenFile(path string) (io.ReadCloser, error)
	CreateFile(path string) (io.WriteCloser, error)
	Rename(oldPath, newPath string) error
	Close() error
}

// Config selects and configures the storage backend
type Config struct {
	Backend string        `json:"backend" mapstructure:"backend"`
	Sftp    sftp.Endpoint `json:"sftp" mapstructure:"sftp"`
}

// New opens the configured backend. An empty backend name means local
func New(conf Config, l *log.Entry) (Backend, error) {
	switch strings.ToLower(conf.Backend) {
	case "", "local":
		l.Debug("Using local storage")
		return Local{}, nil
	case "sftp":
		transport, err := sftp.NewConnection("storage", conf.Sftp, l)
		if err != nil {
			return nil, fmt.Errorf("Unable to connect to sftp storage: %s", err.Error())
		}
		return NewSFTP(transport), nil
	}
	return nil, fmt.Errorf("Unknown storage backend %q", conf.Backend)
}
