package tools

// IndexDocumentArgs is the input shape for indexDocument.
type IndexDocumentArgs struct {
	FilePath     string `json:"file_path" jsonschema:"required,description=Absolute path to the file to index"`
	ForceReindex bool   `json:"force_reindex,omitempty" jsonschema:"description=Reindex even if mtime has not advanced,default=false"`
}

// SearchDocumentsArgs is the input shape for searchDocuments.
type SearchDocumentsArgs struct {
	Query  string `json:"query" jsonschema:"required,minLength=1,maxLength=500,description=Keyword query"`
	Limit  int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=100,default=10,description=Maximum results to return"`
	FileType string `json:"file_type,omitempty" jsonschema:"enum=md,enum=markdown,enum=txt,enum=text,enum=.md,enum=.txt,description=Restrict results to one file type"`
	SortBy string `json:"sort_by,omitempty" jsonschema:"enum=relevance,enum=date,enum=name,default=relevance"`
}

// GetDocumentArgs is the input shape for getDocument. Exactly one of
// DocumentID/FilePath must be set; validated in validate.go since JSON
// Schema's oneOf isn't expressed through struct tags here.
type GetDocumentArgs struct {
	DocumentID        int64  `json:"document_id,omitempty" jsonschema:"minimum=1,description=Numeric id of a previously indexed document"`
	FilePath          string `json:"file_path,omitempty" jsonschema:"maxLength=1000,description=Path of a previously indexed document"`
	IncludeContent    bool   `json:"include_content,omitempty" jsonschema:"default=true"`
	Format            string `json:"format,omitempty" jsonschema:"enum=json,enum=markdown,enum=text,default=json"`
	IncludeMetadata   bool   `json:"include_metadata,omitempty" jsonschema:"default=true"`
	MaxContentLength  int    `json:"max_content_length,omitempty" jsonschema:"minimum=0,default=0,description=0 means unlimited"`
}
