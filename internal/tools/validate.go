package tools

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
)

func validationErr(tool, field, message string) *apperrors.Error {
	return apperrors.Validation("tools", tool, fmt.Sprintf("%s: %s", field, message))
}

// decodeInto runs raw through mapstructure using each field's json tag,
// the same map->struct step the teacher's functiontool.Call performs
// before calling a typed tool function.
func decodeInto(raw map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// decodeIndexDocumentArgs validates and applies defaults over the raw
// params map for indexDocument.
func decodeIndexDocumentArgs(raw map[string]any) (*IndexDocumentArgs, error) {
	args := &IndexDocumentArgs{ForceReindex: false}
	if _, ok := raw["file_path"]; !ok {
		return nil, validationErr("indexDocument", "file_path", "is required")
	}
	if err := decodeInto(raw, args); err != nil {
		return nil, validationErr("indexDocument", "params", err.Error())
	}
	if args.FilePath == "" {
		return nil, validationErr("indexDocument", "file_path", "must be a non-empty string")
	}
	return args, nil
}

// decodeSearchDocumentsArgs validates and applies defaults for
// searchDocuments.
func decodeSearchDocumentsArgs(raw map[string]any) (*SearchDocumentsArgs, error) {
	args := &SearchDocumentsArgs{Limit: 10, SortBy: "relevance"}
	if _, ok := raw["query"]; !ok {
		return nil, validationErr("searchDocuments", "query", "is required")
	}
	if err := decodeInto(raw, args); err != nil {
		return nil, validationErr("searchDocuments", "params", err.Error())
	}

	if len(args.Query) < 1 || len(args.Query) > 500 {
		return nil, validationErr("searchDocuments", "query", "must be between 1 and 500 characters")
	}
	if args.Limit < 1 || args.Limit > 100 {
		return nil, validationErr("searchDocuments", "limit", "must be between 1 and 100")
	}
	if args.FileType != "" && !isEnum(args.FileType, "md", "markdown", "txt", "text", ".md", ".txt") {
		return nil, validationErr("searchDocuments", "file_type", "must be one of md, markdown, txt, text, .md, .txt")
	}
	if !isEnum(args.SortBy, "relevance", "date", "name") {
		return nil, validationErr("searchDocuments", "sort_by", "must be one of relevance, date, name")
	}
	return args, nil
}

// decodeGetDocumentArgs validates and applies defaults for getDocument.
func decodeGetDocumentArgs(raw map[string]any) (*GetDocumentArgs, error) {
	args := &GetDocumentArgs{IncludeContent: true, Format: "json", IncludeMetadata: true}

	_, hasID := raw["document_id"]
	_, hasPath := raw["file_path"]
	if hasID == hasPath {
		return nil, apperrors.New(apperrors.KindInvalidInput, "tools", "getDocument",
			"Only one of document_id or file_path may be provided", nil)
	}

	if err := decodeInto(raw, args); err != nil {
		return nil, validationErr("getDocument", "params", err.Error())
	}

	if hasID && args.DocumentID < 1 {
		return nil, validationErr("getDocument", "document_id", "must be an integer >= 1")
	}
	if hasPath && (len(args.FilePath) < 1 || len(args.FilePath) > 1000) {
		return nil, validationErr("getDocument", "file_path", "must be 1..1000 characters")
	}
	if !isEnum(args.Format, "json", "markdown", "text") {
		return nil, validationErr("getDocument", "format", "must be one of json, markdown, text")
	}
	if args.MaxContentLength < 0 {
		return nil, validationErr("getDocument", "max_content_length", "must be an integer >= 0")
	}
	return args, nil
}

func isEnum(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
