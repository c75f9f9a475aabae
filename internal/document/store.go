package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/masenocturnal/deletecontent/internal/process"
)

// Files is the part of a storage backend documents are read from and written to
type Files interface {
	OpenFile(path string) (io.ReadCloser, error)
	CreateFile(path string) (io.WriteCloser, error)
	Rename(oldPath, newPath string) error
	DeleteFile(path string) error
}

// FileStore keeps documents in the metadata folder of each process.
// Rulesets are part of the daemon configuration and are always read locally.
type FileStore struct {
	Files      Files
	Layout     process.Layout
	RulesetDir string
}

// Preferences loads the ruleset the process is configured with
func (s FileStore) Preferences(p *process.Process) (*Prefs, error) {
	if p.RulesetFile == "" {
		return nil, fmt.Errorf("Process %d has no ruleset", p.ID)
	}
	return LoadPrefs(filepath.Join(s.RulesetDir, p.RulesetFile))
}

// Read parses meta.xml of the process
func (s FileStore) Read(p *process.Process) (*Fileformat, error) {
	fileName := s.Layout.Paths(p).MetadataFile()
	f, err := s.Files.OpenFile(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ff, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("Unable to parse %s: %s", fileName, err.Error())
	}
	return ff, nil
}

// Write replaces meta.xml, keeping the previous version as meta.xml.1
func (s FileStore) Write(p *process.Process, ff *Fileformat) error {
	fileName := s.Layout.Paths(p).MetadataFile()
	tmpName := filepath.Join(filepath.Dir(fileName), ".meta.xml.tmp")
	backup := fileName + ".1"

	w, err := s.Files.CreateFile(tmpName)
	if err != nil {
		return err
	}
	if _, err := ff.WriteTo(w); err != nil {
		w.Close()
		s.Files.DeleteFile(tmpName)
		return err
	}
	if err := w.Close(); err != nil {
		s.Files.DeleteFile(tmpName)
		return err
	}

	// a remote rename does not replace an existing target
	if err := s.Files.DeleteFile(backup); err != nil {
		s.Files.DeleteFile(tmpName)
		return err
	}
	if err := s.Files.Rename(fileName, backup); err != nil && !os.IsNotExist(err) {
		s.Files.DeleteFile(tmpName)
		return err
	}
	return s.Files.Rename(tmpName, fileName)
}
