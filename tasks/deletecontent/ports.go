package deletecontent

import (
	"github.com/masenocturnal/deletecontent/internal/document"
	"github.com/masenocturnal/deletecontent/internal/process"
)

// Storage is the filesystem the process folders live on.
// Listing a missing directory returns nothing and deleting a missing path succeeds.
type Storage interface {
	ListDirectChildren(path string) ([]string, error)
	IsDirectory(path string) (bool, error)
	DeleteDirectoryRecursive(path string) error
	DeleteFile(path string) error
}

// ProcessPaths resolves the folder catalog of a process
type ProcessPaths interface {
	MetadataDirectory() string
	ImagesDirectory() string
	ThumbsDirectory() string
	OcrDirectory() string
	MasterDirectory() string
	MediaDirectory() string
	FallbackDirectory() string
	SourceDirectory() string
	AltoDirectory() string
	PdfDirectory() string
	TxtDirectory() string
	WordCoordinatesDirectory() string
	XMLDirectory() string
	ExportDirectory() string
	ImportDirectory() string
	ProcessLogDirectory() string
	ValidationDirectory() string
	ConfiguredImageFolder(name string) string
	IsMetadataFile(path string) bool
}

// ProcessStore persists the step states of a process
type ProcessStore interface {
	SaveProcess(p *process.Process) error
}

// PropertyStore gives access to the properties of a process
type PropertyStore interface {
	ListProperties(processID int) ([]process.Property, error)
	DeleteProperty(prop process.Property) error
}

// Documents reads and writes the metadata document of a process
type Documents interface {
	Preferences(p *process.Process) (*document.Prefs, error)
	Read(p *process.Process) (*document.Fileformat, error)
	Write(p *process.Process, ff *document.Fileformat) error
}

// Journal records messages in the process journal
type Journal interface {
	AddMessage(processID int, kind process.LogType, message string) error
}

// Feedback shows an error message to the user that triggered the step
type Feedback interface {
	Error(message string, err error)
}
