package deletecontent

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Executor runs a plan against the storage backend
type Executor struct {
	Storage Storage
	log     *log.Entry
}

// NewExecutor returns an executor logging to l
func NewExecutor(s Storage, l *log.Entry) *Executor {
	return &Executor{Storage: s, log: l}
}

// Execute performs the actions in order and stops at the first storage error.
// Deletions that already happened stay applied. It returns the number of
// removed targets.
func (e *Executor) Execute(plan Plan, paths ProcessPaths) (deleted int, err error) {
	for _, action := range plan {
		target := action.Target(paths)
		if strings.TrimSpace(target) == "" {
			e.log.Debugf("%s is not configured for this process, skipping", action.Label)
			continue
		}

		e.log.Debugf("%s %s Start", action.Kind, target)
		n, err := e.perform(action, target, paths)
		deleted += n
		if err != nil {
			e.log.Errorf("%s %s failed: %s", action.Kind, target, err.Error())
			return deleted, err
		}
		e.log.Debugf("%s %s Complete, %d removed", action.Kind, target, n)
	}
	return deleted, nil
}

func (e *Executor) perform(action Action, target string, p ProcessPaths) (int, error) {
	switch action.Kind {
	case DeleteWholeDirectoryIfExists, DeleteDirectoryIfExists:
		return e.deleteDirectoryIfExists(target)
	case DeleteFileIfExists:
		return e.deleteFileIfExists(target)
	case ListAndDeleteEachEntry:
		return e.deleteEachEntry(target, nil)
	case ListAndDeleteEachFile:
		return e.deleteEachEntry(target, func(child string, isDir bool) bool {
			return !isDir && p.IsMetadataFile(child)
		})
	}
	return 0, nil
}

// deleteDirectoryIfExists leaves a missing target or one that is not a directory untouched
func (e *Executor) deleteDirectoryIfExists(target string) (int, error) {
	isDir, err := e.Storage.IsDirectory(target)
	if err != nil {
		return 0, &StorageError{Action: "checking", Path: target, Err: err}
	}
	if !isDir {
		return 0, nil
	}
	if err := e.Storage.DeleteDirectoryRecursive(target); err != nil {
		return 0, &StorageError{Action: "deleting directory", Path: target, Err: err}
	}
	return 1, nil
}

func (e *Executor) deleteFileIfExists(target string) (int, error) {
	isDir, err := e.Storage.IsDirectory(target)
	if err != nil {
		return 0, &StorageError{Action: "checking", Path: target, Err: err}
	}
	if isDir {
		return 0, nil
	}
	if err := e.Storage.DeleteFile(target); err != nil {
		return 0, &StorageError{Action: "deleting file", Path: target, Err: err}
	}
	return 1, nil
}

// deleteEachEntry removes the direct children of dir accepted by keep, recursing into directories
func (e *Executor) deleteEachEntry(dir string, keep func(child string, isDir bool) bool) (int, error) {
	children, err := e.Storage.ListDirectChildren(dir)
	if err != nil {
		return 0, &StorageError{Action: "listing", Path: dir, Err: err}
	}

	deleted := 0
	for _, child := range children {
		isDir, err := e.Storage.IsDirectory(child)
		if err != nil {
			return deleted, &StorageError{Action: "checking", Path: child, Err: err}
		}
		if keep != nil && !keep(child, isDir) {
			continue
		}
		if isDir {
			err = e.Storage.DeleteDirectoryRecursive(child)
		} else {
			err = e.Storage.DeleteFile(child)
		}
		if err != nil {
			return deleted, &StorageError{Action: "deleting", Path: child, Err: err}
		}
		deleted++
	}
	return deleted, nil
}
