// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.gnu.org/licenses/agpl-3.0.en.html
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tools implements C4, the three MCP tools (indexDocument,
// searchDocuments, getDocument) exposed to the host over C6's transport,
// generalizing the teacher's functiontool registry/dispatch pattern from
// LLM-callable agent tools to this fixed three-tool catalog.
package tools

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
	"github.com/mydocs-mcp/mydocs-mcp/internal/parser"
	"github.com/mydocs-mcp/mydocs-mcp/internal/search"
	"github.com/mydocs-mcp/mydocs-mcp/internal/store"
)

const defaultToolTimeout = 30 * time.Second

// Service wires the store, search engine, and parser registry together and
// dispatches named tool calls, mirroring the shape of the teacher's
// functiontool.Registry but fixed to this module's three tools rather than
// a dynamically registered set.
type Service struct {
	store           *store.Store
	engine          *search.Engine
	parsers         *parser.Registry
	maxDocumentSize int64
	timeout         time.Duration
	supportedExt    map[string]bool
}

// NewService builds a Service. timeout of 0 selects the 30s default from
// spec.md §4.4's per-call timeout requirement. supportedExtensions is the
// configured whitelist (config.Config.SupportedExtensions) that
// indexDocument gates on before invoking the parser registry at all,
// mirroring original_source/src/tools/indexDocument.py's supported_extensions
// check; a nil/empty slice disables the whitelist (every extension the
// registry can parse is accepted).
func NewService(st *store.Store, engine *search.Engine, parsers *parser.Registry, maxDocumentSize int64, timeout time.Duration, supportedExtensions []string) *Service {
	if timeout <= 0 {
		timeout = defaultToolTimeout
	}
	supported := make(map[string]bool, len(supportedExtensions))
	for _, ext := range supportedExtensions {
		supported[normalizeExt(ext)] = true
	}
	return &Service{store: st, engine: engine, parsers: parsers, maxDocumentSize: maxDocumentSize, timeout: timeout, supportedExt: supported}
}

// normalizeExt lower-cases ext and ensures it carries a leading dot, so
// both ".md"-style and "md"-style configuration values compare equal.
func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// isSupportedExtension reports whether ext is in the configured whitelist.
// An empty whitelist means no restriction is configured.
func (s *Service) isSupportedExtension(ext string) bool {
	if len(s.supportedExt) == 0 {
		return true
	}
	return s.supportedExt[normalizeExt(ext)]
}

// Descriptor is one entry of the tools/list catalog.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Catalog builds the {name, description, inputSchema} triples for every
// tool this service exposes.
func (s *Service) Catalog() ([]Descriptor, error) {
	indexSchema, err := generateSchema[IndexDocumentArgs]()
	if err != nil {
		return nil, err
	}
	searchSchema, err := generateSchema[SearchDocumentsArgs]()
	if err != nil {
		return nil, err
	}
	getSchema, err := generateSchema[GetDocumentArgs]()
	if err != nil {
		return nil, err
	}
	return []Descriptor{
		{Name: "indexDocument", Description: "Parse and index a single markdown or text file for keyword search.", InputSchema: indexSchema},
		{Name: "searchDocuments", Description: "Run a keyword search over previously indexed documents.", InputSchema: searchSchema},
		{Name: "getDocument", Description: "Retrieve a previously indexed document by id or path.", InputSchema: getSchema},
	}, nil
}

// Call decodes raw, applies the per-tool timeout, dispatches to the named
// tool's handler, and wraps the outcome in the common envelope (spec.md
// §4.4). Unknown tool names and decode/validation failures both surface as
// a failed envelope rather than a transport-level error — transport-level
// errors (method not found) are C6's concern, not this dispatcher's.
func (s *Service) Call(ctx context.Context, name string, rawParams map[string]any) Envelope {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		data any
		err  error
	)

	switch name {
	case "indexDocument":
		var args *IndexDocumentArgs
		args, err = decodeIndexDocumentArgs(rawParams)
		if err == nil {
			data, err = s.IndexDocument(ctx, args)
		}
	case "searchDocuments":
		var args *SearchDocumentsArgs
		args, err = decodeSearchDocumentsArgs(rawParams)
		if err == nil {
			data, err = s.SearchDocuments(ctx, args)
		}
	case "getDocument":
		var args *GetDocumentArgs
		args, err = decodeGetDocumentArgs(rawParams)
		if err == nil {
			data, err = s.GetDocument(ctx, args)
		}
	default:
		err = apperrors.New(apperrors.KindInvalidInput, "tools", "call", "unknown tool: "+name, nil)
	}

	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = apperrors.New(apperrors.KindTimeout, "tools", name, "tool call exceeded its timeout", err)
		}
		slog.Warn("tool call failed", "tool", name, "kind", apperrors.KindOf(err), "error", err.Error())
		return failed(err.Error(), elapsed)
	}
	return ok(data, elapsed)
}
