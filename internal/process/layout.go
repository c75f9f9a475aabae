package process

import (
	"path/filepath"
	"strconv"
	"strings"
)

const titlePlaceholder = "{processtitle}"

// Layout describes where the folders of a process live below the metadata folder.
// Folder names may contain the {processtitle} placeholder.
type Layout struct {
	MetadataFolder      string            `json:"metadataFolder" mapstructure:"metadataFolder"`
	MasterDirectory     string            `json:"masterDirectory" mapstructure:"masterDirectory"`
	MediaDirectory      string            `json:"mediaDirectory" mapstructure:"mediaDirectory"`
	FallbackDirectory   string            `json:"fallbackDirectory" mapstructure:"fallbackDirectory"`
	SourceDirectory     string            `json:"sourceDirectory" mapstructure:"sourceDirectory"`
	AltoDirectory       string            `json:"altoDirectory" mapstructure:"altoDirectory"`
	PdfDirectory        string            `json:"pdfDirectory" mapstructure:"pdfDirectory"`
	TxtDirectory        string            `json:"txtDirectory" mapstructure:"txtDirectory"`
	WcDirectory         string            `json:"wcDirectory" mapstructure:"wcDirectory"`
	XMLDirectory        string            `json:"xmlDirectory" mapstructure:"xmlDirectory"`
	ExportDirectory     string            `json:"exportDirectory" mapstructure:"exportDirectory"`
	ImportDirectory     string            `json:"importDirectory" mapstructure:"importDirectory"`
	JournalFolder       string            `json:"journalFolder" mapstructure:"journalFolder"`
	ValidationDirectory string            `json:"validationDirectory" mapstructure:"validationDirectory"`
	MetadataFilePattern string            `json:"metadataFilePattern" mapstructure:"metadataFilePattern"`
	AdditionalFolders   map[string]string `json:"additionalFolders" mapstructure:"additionalFolders"`
}

// DefaultLayout is the folder structure a fresh installation uses
func DefaultLayout() Layout {
	return Layout{
		MetadataFolder:      "/opt/digiverso/goobi/metadata",
		MasterDirectory:     "master_{processtitle}_media",
		MediaDirectory:      "{processtitle}_media",
		FallbackDirectory:   "{processtitle}_tif",
		SourceDirectory:     "{processtitle}_source",
		AltoDirectory:       "{processtitle}_alto",
		PdfDirectory:        "{processtitle}_pdf",
		TxtDirectory:        "{processtitle}_txt",
		WcDirectory:         "{processtitle}_wc",
		XMLDirectory:        "{processtitle}_xml",
		ExportDirectory:     "export",
		ImportDirectory:     "import",
		JournalFolder:       "intern",
		ValidationDirectory: "validation",
		MetadataFilePattern: "*",
	}
}

// WithDefaults fills every empty folder name from DefaultLayout
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&l.MetadataFolder, d.MetadataFolder)
	fill(&l.MasterDirectory, d.MasterDirectory)
	fill(&l.MediaDirectory, d.MediaDirectory)
	fill(&l.FallbackDirectory, d.FallbackDirectory)
	fill(&l.SourceDirectory, d.SourceDirectory)
	fill(&l.AltoDirectory, d.AltoDirectory)
	fill(&l.PdfDirectory, d.PdfDirectory)
	fill(&l.TxtDirectory, d.TxtDirectory)
	fill(&l.WcDirectory, d.WcDirectory)
	fill(&l.XMLDirectory, d.XMLDirectory)
	fill(&l.ExportDirectory, d.ExportDirectory)
	fill(&l.ImportDirectory, d.ImportDirectory)
	fill(&l.JournalFolder, d.JournalFolder)
	fill(&l.ValidationDirectory, d.ValidationDirectory)
	fill(&l.MetadataFilePattern, d.MetadataFilePattern)
	return l
}

// Paths resolves the folder catalog for a single process
func (l Layout) Paths(p *Process) Paths {
	return Paths{
		layout: l,
		root:   filepath.Join(l.MetadataFolder, strconv.Itoa(p.ID)),
		title:  p.FileSafeTitle(),
	}
}

// Paths is the folder catalog of one process
type Paths struct {
	layout Layout
	root   string
	title  string
}

func (p Paths) expand(pattern string) string {
	return strings.Replace(pattern, titlePlaceholder, p.title, -1)
}

// MetadataDirectory is the process root holding meta.xml
func (p Paths) MetadataDirectory() string { return p.root }

// ImagesDirectory is the root of all image folders
func (p Paths) ImagesDirectory() string { return filepath.Join(p.root, "images") }

// ThumbsDirectory is the root of the generated thumbnails
func (p Paths) ThumbsDirectory() string { return filepath.Join(p.root, "thumbs") }

// OcrDirectory is the root of all ocr result folders
func (p Paths) OcrDirectory() string { return filepath.Join(p.root, "ocr") }

func (p Paths) MasterDirectory() string {
	return filepath.Join(p.ImagesDirectory(), p.expand(p.layout.MasterDirectory))
}

func (p Paths) MediaDirectory() string {
	return filepath.Join(p.ImagesDirectory(), p.expand(p.layout.MediaDirectory))
}

func (p Paths) FallbackDirectory() string {
	return filepath.Join(p.ImagesDirectory(), p.expand(p.layout.FallbackDirectory))
}

func (p Paths) SourceDirectory() string {
	return filepath.Join(p.ImagesDirectory(), p.expand(p.layout.SourceDirectory))
}

func (p Paths) AltoDirectory() string {
	return filepath.Join(p.OcrDirectory(), p.expand(p.layout.AltoDirectory))
}

func (p Paths) PdfDirectory() string {
	return filepath.Join(p.OcrDirectory(), p.expand(p.layout.PdfDirectory))
}

func (p Paths) TxtDirectory() string {
	return filepath.Join(p.OcrDirectory(), p.expand(p.layout.TxtDirectory))
}

func (p Paths) WordCoordinatesDirectory() string {
	return filepath.Join(p.OcrDirectory(), p.expand(p.layout.WcDirectory))
}

func (p Paths) XMLDirectory() string {
	return filepath.Join(p.OcrDirectory(), p.expand(p.layout.XMLDirectory))
}

func (p Paths) ExportDirectory() string {
	return filepath.Join(p.root, p.expand(p.layout.ExportDirectory))
}

func (p Paths) ImportDirectory() string {
	return filepath.Join(p.root, p.expand(p.layout.ImportDirectory))
}

// ProcessLogDirectory holds the internal journal files
func (p Paths) ProcessLogDirectory() string {
	return filepath.Join(p.root, p.layout.JournalFolder)
}

func (p Paths) ValidationDirectory() string {
	return filepath.Join(p.root, p.layout.ValidationDirectory)
}

// ConfiguredImageFolder returns the path of a named image folder or ""
// when no folder with that name is configured
func (p Paths) ConfiguredImageFolder(name string) string {
	// viper lower-cases map keys, so names are matched case-insensitively
	for folder, pattern := range p.layout.AdditionalFolders {
		if strings.EqualFold(folder, name) && strings.TrimSpace(pattern) != "" {
			return filepath.Join(p.ImagesDirectory(), p.expand(pattern))
		}
	}
	return ""
}

// IsMetadataFile reports whether a file in the metadata directory counts as metadata
func (p Paths) IsMetadataFile(path string) bool {
	ok, err := filepath.Match(p.layout.MetadataFilePattern, filepath.Base(path))
	return err == nil && ok
}

// MetadataFile is the path of the structured document of the process
func (p Paths) MetadataFile() string {
	return filepath.Join(p.root, "meta.xml")
}
