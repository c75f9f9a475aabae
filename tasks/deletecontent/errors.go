package deletecontent

import (
	"errors"
	"fmt"
)

// ErrNoConfiguration means not even the global default block exists
var ErrNoConfiguration = errors.New("no matching configuration block")

// StorageError is a failed list or delete against the storage backend
type StorageError struct {
	Action string
	Path   string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Action, e.Path, e.Err.Error())
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError is a failure saving the process record or its properties
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DocumentError is a failure reading or writing the metadata document
type DocumentError struct {
	Op  string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *DocumentError) Unwrap() error { return e.Err }

// ConfigError means the configuration for the task could not be resolved
type ConfigError struct {
	Project string
	Step    string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration for project %q and step %q: %s", e.Project, e.Step, e.Err.Error())
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ErrorKind names the class of a task error, used as a metrics label
func ErrorKind(err error) string {
	var storageErr *StorageError
	var persistenceErr *PersistenceError
	var documentErr *DocumentError
	var configErr *ConfigError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &storageErr):
		return "storage"
	case errors.As(err, &persistenceErr):
		return "persistence"
	case errors.As(err, &documentErr):
		return "document"
	case errors.As(err, &configErr):
		return "config"
	}
	return "other"
}
