package process

import (
	"strings"

	"github.com/jinzhu/gorm"
)

// StepStatus is the processing state of a workflow step
type StepStatus int

// Step states, numbered as they are stored in the steps table
const (
	StatusLocked StepStatus = iota
	StatusOpen
	StatusInWork
	StatusDone
	StatusError
	StatusDeactivated
)

func (s StepStatus) String() string {
	switch s {
	case StatusLocked:
		return "Locked"
	case StatusOpen:
		return "Open"
	case StatusInWork:
		return "InWork"
	case StatusDone:
		return "Done"
	case StatusError:
		return "Error"
	case StatusDeactivated:
		return "Deactivated"
	}
	return "Unknown"
}

// LogType classifies a journal entry
type LogType string

// Journal entry kinds
const (
	LogInfo  LogType = "info"
	LogError LogType = "error"
)

//TableName sets the table name to processes
func (Process) TableName() string {
	return "processes"
}

// Process is one unit of work tracked by the workflow engine
type Process struct {
	ID          int `gorm:"primary_key"`
	Title       string
	ProjectName string
	RulesetFile string
	Steps       []Step `gorm:"foreignkey:ProcessID"`
}

//TableName sets the table name to steps
func (Step) TableName() string {
	return "steps"
}

// Step is one task in the ordered workflow of a process
type Step struct {
	ID        int `gorm:"primary_key"`
	ProcessID int
	Title     string
	Ordering  int
	Status    StepStatus
	Plugin    string
	Automatic bool
}

// StepByID returns the step of the process with the given id
func (p *Process) StepByID(id int) *Step {
	for i := range p.Steps {
		if p.Steps[i].ID == id {
			return &p.Steps[i]
		}
	}
	return nil
}

// FileSafeTitle is the title as it is used in folder names
func (p *Process) FileSafeTitle() string {
	return strings.Join(strings.Fields(p.Title), "_")
}

//TableName sets the table name to process_properties
func (Property) TableName() string {
	return "process_properties"
}

// Property is a labelled value attached to a process record
type Property struct {
	ID        int `gorm:"primary_key"`
	ProcessID int
	Title     string
	Value     string
}

//TableName sets the table name to journal
func (JournalEntry) TableName() string {
	return "journal"
}

// JournalEntry Maps to a row in the process journal
type JournalEntry struct {
	gorm.Model
	ProcessID     int
	Type          LogType
	Content       string
	CorrelationID string
}
