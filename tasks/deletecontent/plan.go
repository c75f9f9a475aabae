package deletecontent

// ActionKind is how a planned target is removed
type ActionKind int

const (
	// DeleteWholeDirectoryIfExists removes a root folder and everything below it
	DeleteWholeDirectoryIfExists ActionKind = iota
	// DeleteDirectoryIfExists removes a single catalog folder
	DeleteDirectoryIfExists
	// DeleteFileIfExists removes a single file, never a directory
	DeleteFileIfExists
	// ListAndDeleteEachEntry empties a folder but keeps the folder itself
	ListAndDeleteEachEntry
	// ListAndDeleteEachFile removes the metadata files directly in a folder, leaving subfolders alone
	ListAndDeleteEachFile
)

func (k ActionKind) String() string {
	switch k {
	case DeleteWholeDirectoryIfExists:
		return "DeleteWholeDirectoryIfExists"
	case DeleteDirectoryIfExists:
		return "DeleteDirectoryIfExists"
	case DeleteFileIfExists:
		return "DeleteFileIfExists"
	case ListAndDeleteEachEntry:
		return "ListAndDeleteEachEntry"
	case ListAndDeleteEachFile:
		return "ListAndDeleteEachFile"
	}
	return "Unknown"
}

// PathGetter resolves the target of an action when it is executed
type PathGetter func(ProcessPaths) string

// Action is one planned deletion
type Action struct {
	Label  string
	Kind   ActionKind
	Target PathGetter
}

// Plan is the ordered list of deletions for one run
type Plan []Action

// Labels lists the action labels in execution order
func (p Plan) Labels() []string {
	labels := make([]string, 0, len(p))
	for _, a := range p {
		labels = append(labels, a.Label)
	}
	return labels
}

type group int

const (
	groupWhole group = iota
	groupImage
	groupOcr
	groupProcess
)

type rule struct {
	label  string
	group  group
	kind   ActionKind
	flag   func(*DeletionConfig) bool
	target PathGetter
}

// rules is the catalog in execution order. The additional image folders are
// planned directly after the image group.
var rules = []rule{
	{"images", groupWhole, ListAndDeleteEachEntry,
		func(c *DeletionConfig) bool { return c.DeleteAllContentFromImageDirectory },
		ProcessPaths.ImagesDirectory},
	{"thumbs", groupWhole, DeleteWholeDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteAllContentFromThumbsDirectory },
		ProcessPaths.ThumbsDirectory},
	{"ocr", groupWhole, DeleteWholeDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteAllContentFromOcrDirectory },
		ProcessPaths.OcrDirectory},

	{"master", groupImage, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteMasterDirectory },
		ProcessPaths.MasterDirectory},
	{"media", groupImage, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteMediaDirectory },
		ProcessPaths.MediaDirectory},
	{"fallback", groupImage, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteFallbackDirectory },
		ProcessPaths.FallbackDirectory},
	{"source", groupImage, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteSourceDirectory },
		ProcessPaths.SourceDirectory},

	{"alto", groupOcr, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteAltoDirectory },
		ProcessPaths.AltoDirectory},
	{"pdf", groupOcr, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeletePdfDirectory },
		ProcessPaths.PdfDirectory},
	{"txt", groupOcr, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteTxtDirectory },
		ProcessPaths.TxtDirectory},
	{"wc", groupOcr, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteWcDirectory },
		ProcessPaths.WordCoordinatesDirectory},
	{"xml", groupOcr, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteXMLDirectory },
		ProcessPaths.XMLDirectory},

	{"export", groupProcess, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteExportDirectory },
		ProcessPaths.ExportDirectory},
	{"import", groupProcess, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteImportDirectory },
		ProcessPaths.ImportDirectory},
	{"processlog", groupProcess, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteProcesslogDirectory },
		ProcessPaths.ProcessLogDirectory},
	{"validation", groupProcess, DeleteDirectoryIfExists,
		func(c *DeletionConfig) bool { return c.DeleteValidationDirectory },
		ProcessPaths.ValidationDirectory},

	{"metadata files", groupProcess, ListAndDeleteEachFile,
		func(c *DeletionConfig) bool { return c.DeleteMetadataFiles },
		ProcessPaths.MetadataDirectory},
}

// BuildPlan turns a configuration into the ordered list of deletions.
// Deleting all content of images or ocr supersedes the folders of that group,
// their flags are not evaluated at all.
func BuildPlan(cfg *DeletionConfig) Plan {
	var plan Plan
	for i, r := range rules {
		if !groupEnabled(cfg, r.group) {
			continue
		}
		if r.flag(cfg) {
			plan = append(plan, Action{Label: r.label, Kind: r.kind, Target: r.target})
		}
		if r.group == groupImage && (i+1 == len(rules) || rules[i+1].group != groupImage) {
			plan = append(plan, additionalFolders(cfg)...)
		}
	}
	return plan
}

func groupEnabled(cfg *DeletionConfig, g group) bool {
	switch g {
	case groupImage:
		return !cfg.DeleteAllContentFromImageDirectory
	case groupOcr:
		return !cfg.DeleteAllContentFromOcrDirectory
	}
	return true
}

func additionalFolders(cfg *DeletionConfig) []Action {
	actions := make([]Action, 0, len(cfg.AdditionalFolders))
	for _, folder := range cfg.AdditionalFolders {
		name := folder
		actions = append(actions, Action{
			Label: "folder " + name,
			Kind:  DeleteDirectoryIfExists,
			Target: func(p ProcessPaths) string {
				return p.ConfiguredImageFolder(name)
			},
		})
	}
	return actions
}
