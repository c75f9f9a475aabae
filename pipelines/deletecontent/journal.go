package deletecontent

import (
	"github.com/masenocturnal/deletecontent/internal/process"
	log "github.com/sirupsen/logrus"
)

type journalWriter interface {
	AddEntry(entry *process.JournalEntry) error
}

// runJournal tags every journal entry of a run with its correlation id
type runJournal struct {
	entries       journalWriter
	correlationID string
}

func (j *runJournal) AddMessage(processID int, kind process.LogType, message string) error {
	return j.entries.AddEntry(&process.JournalEntry{
		ProcessID:     processID,
		Type:          kind,
		Content:       message,
		CorrelationID: j.correlationID,
	})
}

// stepFeedback reports to the log, there is no user session on the bus
type stepFeedback struct {
	log *log.Entry
}

func (f *stepFeedback) Error(message string, err error) {
	f.log.WithField("feedback", true).Errorf("%s: %s", message, err.Error())
}
