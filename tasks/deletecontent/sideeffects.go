package deletecontent

import (
	"github.com/masenocturnal/deletecontent/internal/document"
	"github.com/masenocturnal/deletecontent/internal/process"
)

// deactivateSteps marks every other step that isn't done as deactivated and saves the process.
// When the save fails the previous statuses are restored so a later save can't persist them.
func (t *Task) deactivateSteps() error {
	previous := make(map[int]process.StepStatus)
	for i := range t.Process.Steps {
		other := &t.Process.Steps[i]
		if other.Title != t.Step.Title && other.Status != process.StatusDone {
			t.log.Debugf("Deactivating step %s (was %s)", other.Title, other.Status)
			previous[i] = other.Status
			other.Status = process.StatusDeactivated
		}
	}
	if err := t.deps.Processes.SaveProcess(t.Process); err != nil {
		for i, status := range previous {
			t.Process.Steps[i].Status = status
		}
		return &PersistenceError{Op: "saving deactivated process", Err: err}
	}
	return nil
}

// deleteMetadata strips the configured fields from the top structure of the document.
// The document is only written when something was removed.
func (t *Task) deleteMetadata() error {
	prefs, err := t.deps.Documents.Preferences(t.Process)
	if err != nil {
		return &DocumentError{Op: "loading ruleset", Err: err}
	}
	ff, err := t.deps.Documents.Read(t.Process)
	if err != nil {
		return &DocumentError{Op: "reading metadata file", Err: err}
	}
	doc, err := ff.TopStruct()
	if err != nil {
		return &DocumentError{Op: "reading metadata file", Err: err}
	}

	var mdToDelete []*document.Metadata
	for _, label := range t.Config.MetadataFieldsToDelete {
		mdType, ok := prefs.MetadataTypeByName(label)
		if !ok {
			t.log.Warnf("Metadata type %s is not defined in the ruleset", label)
			continue
		}
		mdToDelete = append(mdToDelete, doc.AllMetadataByType(mdType)...)
	}

	removed := 0
	for _, md := range mdToDelete {
		if doc.RemoveMetadata(md) {
			removed++
		}
	}
	if removed == 0 {
		t.log.Debug("No metadata matched, metadata file left unchanged")
		return nil
	}

	if err := t.deps.Documents.Write(t.Process, ff); err != nil {
		return &DocumentError{Op: "writing metadata file", Err: err}
	}
	t.log.Infof("Removed %d metadata entries", removed)
	return nil
}

// deleteProperties removes every process property whose title is configured
func (t *Task) deleteProperties() error {
	var propToDelete []process.Property
	seen := make(map[int]bool)
	for _, name := range t.Config.PropertiesToDelete {
		props, err := t.deps.Properties.ListProperties(t.Process.ID)
		if err != nil {
			return &PersistenceError{Op: "listing process properties", Err: err}
		}
		for _, prop := range props {
			if prop.Title == name && !seen[prop.ID] {
				seen[prop.ID] = true
				propToDelete = append(propToDelete, prop)
			}
		}
	}

	for _, prop := range propToDelete {
		if err := t.deps.Properties.DeleteProperty(prop); err != nil {
			return &PersistenceError{Op: "deleting property " + prop.Title, Err: err}
		}
	}
	t.log.Debugf("Removed %d properties", len(propToDelete))
	return nil
}
