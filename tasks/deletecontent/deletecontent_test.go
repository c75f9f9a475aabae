package deletecontent

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/masenocturnal/deletecontent/internal/document"
	"github.com/masenocturnal/deletecontent/internal/process"
	"github.com/masenocturnal/deletecontent/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	process    *process.Process
	storage    *memStorage
	processes  *fakeProcessStore
	properties *fakePropertyStore
	documents  *fakeDocuments
	journal    *fakeJournal
	feedback   *fakeFeedback
}

func newHarness() *harness {
	return &harness{
		process:    fixtureProcess(),
		storage:    fixtureTree(),
		processes:  &fakeProcessStore{},
		properties: &fakePropertyStore{},
		documents:  &fakeDocuments{},
		journal:    &fakeJournal{},
		feedback:   &fakeFeedback{},
	}
}

func (h *harness) deps() Dependencies {
	return Dependencies{
		Storage:    h.storage,
		Processes:  h.processes,
		Properties: h.properties,
		Documents:  h.documents,
		Journal:    h.journal,
		Feedback:   h.feedback,
	}
}

func (h *harness) task(cfg *DeletionConfig) *Task {
	return NewTask(h.process, &h.process.Steps[1], cfg, fixturePaths(nil), h.deps(), testLogger())
}

func TestRunNothingConfigured(t *testing.T) {
	h := newHarness()
	task := h.task(&DeletionConfig{})

	assert.True(t, task.Run())
	assert.Equal(t, StageDone, task.Stage())
	assert.Zero(t, task.Deleted)
	assert.Empty(t, h.storage.deleted)
	assert.Zero(t, h.processes.saved)
	assert.Zero(t, h.documents.writes)
	assert.Equal(t, []journalEntry{{kind: process.LogInfo, message: "Data was automatically deleted in task Image deletion step"}}, h.journal.entries)
	assert.Empty(t, h.feedback.messages)
}

func TestRunDeleteMasterDirectory(t *testing.T) {
	h := newHarness()

	require.True(t, h.task(&DeletionConfig{DeleteMasterDirectory: true}).Run())

	assert.False(t, h.storage.exists(root+"/images/master_fixture_media"))
	assert.True(t, h.storage.exists(root+"/images/fixture_media"))
	assert.True(t, h.storage.exists(root+"/images/fixture_source"))
	assert.True(t, h.storage.exists(root+"/thumbs"))
	assert.True(t, h.storage.exists(root+"/ocr/fixture_alto"))
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness()
	cfg := &DeletionConfig{DeleteMasterDirectory: true, DeleteAllContentFromOcrDirectory: true}

	require.True(t, h.task(cfg).Run())
	after := len(h.storage.nodes)
	require.True(t, h.task(cfg).Run())

	assert.Equal(t, after, len(h.storage.nodes))
	assert.Len(t, h.journal.entries, 2)
}

func TestRunDeactivateProcess(t *testing.T) {
	h := newHarness()

	require.True(t, h.task(&DeletionConfig{DeactivateProcess: true}).Run())

	assert.Equal(t, process.StatusDone, h.process.Steps[0].Status)
	assert.Equal(t, process.StatusOpen, h.process.Steps[1].Status)
	assert.Equal(t, process.StatusDeactivated, h.process.Steps[2].Status)
	assert.Equal(t, 1, h.processes.saved)
}

func TestRunDeactivateSaveFailure(t *testing.T) {
	h := newHarness()
	h.processes.err = errors.New("connection lost")
	task := h.task(&DeletionConfig{DeleteMasterDirectory: true, DeactivateProcess: true, PropertiesToDelete: []string{"Template"}})

	err := task.Execute()
	require.Error(t, err)

	var persistenceErr *PersistenceError
	assert.True(t, errors.As(err, &persistenceErr))
	assert.Equal(t, StageFailed, task.Stage())

	// deletions are not undone but the step statuses are
	assert.False(t, h.storage.exists(root+"/images/master_fixture_media"))
	assert.Equal(t, process.StatusOpen, h.process.Steps[1].Status)
	assert.Equal(t, process.StatusLocked, h.process.Steps[2].Status)
	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, process.LogError, h.journal.entries[0].kind)
	assert.Contains(t, h.journal.entries[0].message, "Error during process deactivation in task Image deletion step")
	assert.Contains(t, h.journal.entries[0].message, "connection lost")
	assert.Len(t, h.feedback.messages, 1)
}

func TestRunStorageFailure(t *testing.T) {
	h := newHarness()
	h.storage.failOn[root+"/images/master_fixture_media"] = errPermission
	task := h.task(&DeletionConfig{DeleteMasterDirectory: true, DeleteMediaDirectory: true, DeactivateProcess: true})

	assert.False(t, task.Run())
	assert.Equal(t, StageFailed, task.Stage())

	assert.True(t, h.storage.exists(root+"/images/fixture_media"))
	assert.Zero(t, h.processes.saved)
	assert.Equal(t, process.StatusLocked, h.process.Steps[2].Status)

	require.Len(t, h.journal.entries, 1)
	entry := h.journal.entries[0]
	assert.Equal(t, process.LogError, entry.kind)
	assert.Contains(t, entry.message, "Error during file deletion in task Image deletion step")
	assert.Contains(t, entry.message, "permission denied")
	assert.Equal(t, []string{"Error during file deletion in task Image deletion step: deleting directory " + root + "/images/master_fixture_media: permission denied"}, h.feedback.messages)
}

func anchorDocument() *document.Fileformat {
	return &document.Fileformat{Logical: &document.DocStruct{
		Type:     "Periodical",
		Anchor:   true,
		Metadata: []*document.Metadata{{Type: "DocLanguage", Value: "ger"}},
		Children: []*document.DocStruct{{
			Type: "PeriodicalVolume",
			Metadata: []*document.Metadata{
				{Type: "TitleDocMain", Value: "Volume"},
				{Type: "DocLanguage", Value: "ger"},
				{Type: "DocLanguage", Value: "lat"},
			},
		}},
	}}
}

func fixturePrefs() *document.Prefs {
	return &document.Prefs{MetadataTypes: []document.MetadataType{{Name: "TitleDocMain"}, {Name: "DocLanguage"}, {Name: "PublisherName"}}}
}

func TestRunDeleteMetadataFromAnchorChild(t *testing.T) {
	h := newHarness()
	h.documents.prefs = fixturePrefs()
	h.documents.ff = anchorDocument()

	require.True(t, h.task(&DeletionConfig{MetadataFieldsToDelete: []string{"DocLanguage", "Unknown"}}).Run())

	volume := h.documents.ff.Logical.Children[0]
	assert.Empty(t, volume.AllMetadataByType("DocLanguage"))
	assert.Len(t, volume.AllMetadataByType("TitleDocMain"), 1)
	// the anchor itself is not touched
	assert.Len(t, h.documents.ff.Logical.AllMetadataByType("DocLanguage"), 1)
	assert.Equal(t, 1, h.documents.writes)
}

func TestRunDeleteMetadataWithoutMatch(t *testing.T) {
	h := newHarness()
	h.documents.prefs = fixturePrefs()
	h.documents.ff = anchorDocument()

	require.True(t, h.task(&DeletionConfig{MetadataFieldsToDelete: []string{"PublisherName"}}).Run())
	assert.Zero(t, h.documents.writes)
}

func TestRunDeleteMetadataReadFailure(t *testing.T) {
	h := newHarness()
	h.documents.prefs = fixturePrefs()
	h.documents.readErr = errors.New("meta.xml is not well-formed")
	task := h.task(&DeletionConfig{DeleteMasterDirectory: true, MetadataFieldsToDelete: []string{"DocLanguage"}})

	err := task.Execute()
	require.Error(t, err)
	assert.Equal(t, "document", ErrorKind(err))
	assert.False(t, h.storage.exists(root+"/images/master_fixture_media"))
	require.Len(t, h.journal.entries, 1)
	assert.Contains(t, h.journal.entries[0].message, "Error while deleting metadata from meta.xml file in task Image deletion step")
}

func TestRunDeleteMetadataWriteFailure(t *testing.T) {
	h := newHarness()
	h.documents.prefs = fixturePrefs()
	h.documents.ff = anchorDocument()
	h.documents.writeErr = errors.New("disk full")

	err := h.task(&DeletionConfig{MetadataFieldsToDelete: []string{"DocLanguage"}}).Execute()
	var documentErr *DocumentError
	require.True(t, errors.As(err, &documentErr))
	assert.Equal(t, "writing metadata file", documentErr.Op)
}

func TestRunDeleteProperties(t *testing.T) {
	h := newHarness()
	h.properties.props = []process.Property{
		{ID: 1, ProcessID: 1, Title: "Template", Value: "a"},
		{ID: 2, ProcessID: 1, Title: "Template", Value: "b"},
		{ID: 3, ProcessID: 1, Title: "Keep", Value: "c"},
		{ID: 4, ProcessID: 2, Title: "Template", Value: "other process"},
	}

	require.True(t, h.task(&DeletionConfig{PropertiesToDelete: []string{"Template", "Missing", "Template"}}).Run())

	require.Len(t, h.properties.deleted, 2)
	assert.Equal(t, 1, h.properties.deleted[0].ID)
	assert.Equal(t, 2, h.properties.deleted[1].ID)
	assert.Len(t, h.properties.props, 2)
}

func TestRunMissingConfiguration(t *testing.T) {
	h := newHarness()
	task := h.task(nil)

	err := task.Execute()
	assert.Equal(t, "config", ErrorKind(err))
	assert.Equal(t, StageFailed, task.Stage())
	assert.Zero(t, h.storage.calls)
	require.Len(t, h.journal.entries, 1)
	assert.Equal(t, process.LogError, h.journal.entries[0].kind)
}

func TestInitialize(t *testing.T) {
	h := newHarness()
	r := &Resolver{Blocks: []ConfigBlock{block("projectName", "Image deletion step", DeletionConfig{DeleteMasterDirectory: true})}}

	task, err := Initialize(h.process, &h.process.Steps[1], r, fixturePaths(nil), h.deps(), testLogger())
	require.NoError(t, err)
	assert.True(t, task.Config.DeleteMasterDirectory)
	assert.Equal(t, StageNotStarted, task.Stage())

	_, err = Initialize(h.process, &h.process.Steps[2], r, fixturePaths(nil), h.deps(), testLogger())
	require.Error(t, err)
	require.Len(t, h.journal.entries, 1)
	assert.Contains(t, h.journal.entries[0].message, "test step to deactivate")
	assert.Zero(t, h.storage.calls)
}

// createProcessDirectory builds the folders of process 1 in a real metadata folder
func createProcessDirectory(t *testing.T) (process.Layout, string) {
	t.Helper()
	metadata := t.TempDir()
	processDir := filepath.Join(metadata, "1")

	files := []string{
		"images/master_fixture_media/0001.tif",
		"images/fixture_media/0001.tif",
		"images/fixture_source/fixture.zip",
		"thumbs/fixture_media_800/0001.tif",
		"ocr/fixture_alto/0001.xml",
		"export/fixture.xml",
		"import/fixture.xml",
		"intern/journal.pdf",
		"meta.xml",
		"meta.xml.1",
		"meta_anchor.xml",
		"meta_anchor.xml.1",
	}
	for _, f := range files {
		full := filepath.Join(processDir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, ioutil.WriteFile(full, nil, 0644))
	}
	return process.Layout{MetadataFolder: metadata}.WithDefaults(), processDir
}

func runOnDisk(t *testing.T, cfg *DeletionConfig) (string, *fakeJournal) {
	t.Helper()
	layout, processDir := createProcessDirectory(t)
	p := fixtureProcess()
	journal := &fakeJournal{}
	deps := Dependencies{Storage: storage.Local{}, Processes: &fakeProcessStore{}, Journal: journal}

	task := NewTask(p, &p.Steps[1], cfg, layout.Paths(p), deps, testLogger())
	require.True(t, task.Run())
	return processDir, journal
}

func TestDeleteNothingOnDisk(t *testing.T) {
	dir, journal := runOnDisk(t, &DeletionConfig{})

	assert.DirExists(t, filepath.Join(dir, "images/master_fixture_media"))
	assert.DirExists(t, filepath.Join(dir, "images/fixture_media"))
	assert.DirExists(t, filepath.Join(dir, "images/fixture_source"))
	assert.DirExists(t, filepath.Join(dir, "thumbs"))
	assert.DirExists(t, filepath.Join(dir, "ocr/fixture_alto"))
	assert.Len(t, journal.entries, 1)
}

func TestDeleteAllFilesOnDisk(t *testing.T) {
	dir, journal := runOnDisk(t, &DeletionConfig{
		DeleteAllContentFromImageDirectory:  true,
		DeleteAllContentFromThumbsDirectory: true,
		DeleteAllContentFromOcrDirectory:    true,
	})

	assert.NoDirExists(t, filepath.Join(dir, "images/master_fixture_media"))
	assert.NoDirExists(t, filepath.Join(dir, "images/fixture_media"))
	assert.NoDirExists(t, filepath.Join(dir, "images/fixture_source"))
	assert.NoDirExists(t, filepath.Join(dir, "thumbs"))
	assert.NoDirExists(t, filepath.Join(dir, "ocr/fixture_alto"))
	assert.DirExists(t, filepath.Join(dir, "images"))
	assert.Equal(t, []journalEntry{{kind: process.LogInfo, message: "Data was automatically deleted in task Image deletion step"}}, journal.entries)
}

func TestDeleteAllImagesOnDisk(t *testing.T) {
	dir, _ := runOnDisk(t, &DeletionConfig{DeleteAllContentFromImageDirectory: true})

	assert.NoDirExists(t, filepath.Join(dir, "images/master_fixture_media"))
	assert.NoDirExists(t, filepath.Join(dir, "images/fixture_media"))
	assert.NoDirExists(t, filepath.Join(dir, "images/fixture_source"))
	assert.DirExists(t, filepath.Join(dir, "thumbs"))
	assert.DirExists(t, filepath.Join(dir, "ocr/fixture_alto"))
}

func TestDeleteAltoOnDisk(t *testing.T) {
	dir, _ := runOnDisk(t, &DeletionConfig{DeleteAltoDirectory: true})

	assert.NoDirExists(t, filepath.Join(dir, "ocr/fixture_alto"))
	assert.DirExists(t, filepath.Join(dir, "ocr"))
	assert.DirExists(t, filepath.Join(dir, "images/master_fixture_media"))
	assert.DirExists(t, filepath.Join(dir, "thumbs"))
}

func TestDeleteNonExistingDirectoryOnDisk(t *testing.T) {
	dir, _ := runOnDisk(t, &DeletionConfig{DeletePdfDirectory: true})

	assert.DirExists(t, filepath.Join(dir, "ocr/fixture_alto"))
	assert.DirExists(t, filepath.Join(dir, "images/master_fixture_media"))
}

func TestDeleteExportImportDirectoriesOnDisk(t *testing.T) {
	dir, _ := runOnDisk(t, &DeletionConfig{
		DeleteExportDirectory:     true,
		DeleteImportDirectory:     true,
		DeleteProcesslogDirectory: true,
	})

	assert.NoDirExists(t, filepath.Join(dir, "export"))
	assert.NoDirExists(t, filepath.Join(dir, "import"))
	assert.NoDirExists(t, filepath.Join(dir, "intern"))
	assert.FileExists(t, filepath.Join(dir, "meta.xml"))
}

func TestDeleteMetadataFilesOnDisk(t *testing.T) {
	dir, _ := runOnDisk(t, &DeletionConfig{DeleteMetadataFiles: true})

	assert.NoFileExists(t, filepath.Join(dir, "meta.xml"))
	assert.NoFileExists(t, filepath.Join(dir, "meta.xml.1"))
	assert.NoFileExists(t, filepath.Join(dir, "meta_anchor.xml"))
	assert.NoFileExists(t, filepath.Join(dir, "meta_anchor.xml.1"))
	assert.DirExists(t, filepath.Join(dir, "images/master_fixture_media"))
}
