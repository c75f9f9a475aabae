package deletecontent

// DeletionConfig is the resolved configuration for one run of the task
type DeletionConfig struct {
	DeleteAllContentFromImageDirectory  bool `json:"deleteAllContentFromImageDirectory" mapstructure:"deleteAllContentFromImageDirectory"`
	DeleteAllContentFromThumbsDirectory bool `json:"deleteAllContentFromThumbsDirectory" mapstructure:"deleteAllContentFromThumbsDirectory"`
	DeleteAllContentFromOcrDirectory    bool `json:"deleteAllContentFromOcrDirectory" mapstructure:"deleteAllContentFromOcrDirectory"`

	DeleteMasterDirectory   bool     `json:"deleteMasterDirectory" mapstructure:"deleteMasterDirectory"`
	DeleteMediaDirectory    bool     `json:"deleteMediaDirectory" mapstructure:"deleteMediaDirectory"`
	DeleteFallbackDirectory bool     `json:"deleteFallbackDirectory" mapstructure:"deleteFallbackDirectory"`
	DeleteSourceDirectory   bool     `json:"deleteSourceDirectory" mapstructure:"deleteSourceDirectory"`
	AdditionalFolders       []string `json:"additionalFolder" mapstructure:"additionalFolder"`

	DeleteAltoDirectory bool `json:"deleteAltoDirectory" mapstructure:"deleteAltoDirectory"`
	DeletePdfDirectory  bool `json:"deletePdfDirectory" mapstructure:"deletePdfDirectory"`
	DeleteTxtDirectory  bool `json:"deleteTxtDirectory" mapstructure:"deleteTxtDirectory"`
	DeleteWcDirectory   bool `json:"deleteWcDirectory" mapstructure:"deleteWcDirectory"`
	DeleteXMLDirectory  bool `json:"deleteXmlDirectory" mapstructure:"deleteXmlDirectory"`

	DeleteExportDirectory     bool `json:"deleteExportDirectory" mapstructure:"deleteExportDirectory"`
	DeleteImportDirectory     bool `json:"deleteImportDirectory" mapstructure:"deleteImportDirectory"`
	DeleteProcesslogDirectory bool `json:"deleteProcesslogDirectory" mapstructure:"deleteProcesslogDirectory"`
	DeleteValidationDirectory bool `json:"deleteValidationDirectory" mapstructure:"deleteValidationDirectory"`

	DeleteMetadataFiles bool `json:"deleteMetadataFiles" mapstructure:"deleteMetadataFiles"`
	DeactivateProcess   bool `json:"deactivateProcess" mapstructure:"deactivateProcess"`

	MetadataFieldsToDelete []string `json:"deleteMetadata" mapstructure:"deleteMetadata"`
	PropertiesToDelete     []string `json:"deleteProperty" mapstructure:"deleteProperty"`
}

// ConfigBlock is one <config> section of the plugin configuration file,
// selected by project and step title. "*" matches any value.
type ConfigBlock struct {
	Project        []string `json:"project" mapstructure:"project"`
	Step           []string `json:"step" mapstructure:"step"`
	DeletionConfig `mapstructure:",squash"`
}
