package deletecontent

import (
	"errors"
	"path"
	"sort"
	"strings"

	"github.com/masenocturnal/deletecontent/internal/document"
	"github.com/masenocturnal/deletecontent/internal/process"
	log "github.com/sirupsen/logrus"
)

var errPermission = errors.New("permission denied")

// memStorage is an in-memory tree. true marks a directory.
type memStorage struct {
	nodes   map[string]bool
	failOn  map[string]error
	deleted []string
	calls   int
}

func newMemStorage(dirs []string, files []string) *memStorage {
	m := &memStorage{nodes: map[string]bool{}, failOn: map[string]error{}}
	for _, d := range dirs {
		m.nodes[d] = true
	}
	for _, f := range files {
		m.nodes[f] = false
	}
	return m
}

func (m *memStorage) ListDirectChildren(dir string) ([]string, error) {
	m.calls++
	if err, ok := m.failOn[dir]; ok {
		return nil, err
	}
	var children []string
	for p := range m.nodes {
		if path.Dir(p) == dir {
			children = append(children, p)
		}
	}
	sort.Strings(children)
	return children, nil
}

func (m *memStorage) IsDirectory(p string) (bool, error) {
	m.calls++
	return m.nodes[p], nil
}

func (m *memStorage) DeleteDirectoryRecursive(dir string) error {
	m.calls++
	if err, ok := m.failOn[dir]; ok {
		return err
	}
	for p := range m.nodes {
		if p == dir || strings.HasPrefix(p, dir+"/") {
			delete(m.nodes, p)
		}
	}
	m.deleted = append(m.deleted, dir)
	return nil
}

func (m *memStorage) DeleteFile(p string) error {
	m.calls++
	if err, ok := m.failOn[p]; ok {
		return err
	}
	delete(m.nodes, p)
	m.deleted = append(m.deleted, p)
	return nil
}

func (m *memStorage) exists(p string) bool {
	_, ok := m.nodes[p]
	return ok
}

type fakeProcessStore struct {
	saved int
	err   error
}

func (f *fakeProcessStore) SaveProcess(p *process.Process) error {
	if f.err != nil {
		return f.err
	}
	f.saved++
	return nil
}

type fakePropertyStore struct {
	props   []process.Property
	deleted []process.Property
	err     error
}

func (f *fakePropertyStore) ListProperties(processID int) ([]process.Property, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []process.Property
	for _, p := range f.props {
		if p.ProcessID == processID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePropertyStore) DeleteProperty(prop process.Property) error {
	for i, p := range f.props {
		if p.ID == prop.ID {
			f.props = append(f.props[:i], f.props[i+1:]...)
			break
		}
	}
	f.deleted = append(f.deleted, prop)
	return nil
}

type fakeDocuments struct {
	prefs    *document.Prefs
	ff       *document.Fileformat
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeDocuments) Preferences(p *process.Process) (*document.Prefs, error) {
	return f.prefs, nil
}

func (f *fakeDocuments) Read(p *process.Process) (*document.Fileformat, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.ff, nil
}

func (f *fakeDocuments) Write(p *process.Process, ff *document.Fileformat) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	return nil
}

type journalEntry struct {
	kind    process.LogType
	message string
}

type fakeJournal struct {
	entries []journalEntry
}

func (f *fakeJournal) AddMessage(processID int, kind process.LogType, message string) error {
	f.entries = append(f.entries, journalEntry{kind: kind, message: message})
	return nil
}

type fakeFeedback struct {
	messages []string
}

func (f *fakeFeedback) Error(message string, err error) {
	f.messages = append(f.messages, message+": "+err.Error())
}

func testLogger() *log.Entry {
	return log.WithField("test", "true")
}

func fixtureProcess() *process.Process {
	return &process.Process{
		ID:          1,
		Title:       "fixture",
		ProjectName: "projectName",
		RulesetFile: "ruleset.xml",
		Steps: []process.Step{
			{ID: 1, ProcessID: 1, Title: "closed step", Ordering: 1, Status: process.StatusDone},
			{ID: 2, ProcessID: 1, Title: "Image deletion step", Ordering: 2, Status: process.StatusOpen, Plugin: TitleImageDeletion, Automatic: true},
			{ID: 3, ProcessID: 1, Title: "test step to deactivate", Ordering: 3, Status: process.StatusLocked},
		},
	}
}
