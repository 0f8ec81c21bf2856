// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command mydocsmcp is the MCP server for mydocs-mcp.
//
// Usage:
//
//	mydocsmcp serve --document-root ./docs
//	mydocsmcp validate --document-root ./docs
//	mydocsmcp version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/mydocs-mcp/mydocs-mcp/internal/apperrors"
	"github.com/mydocs-mcp/mydocs-mcp/internal/config"
	"github.com/mydocs-mcp/mydocs-mcp/internal/logging"
	"github.com/mydocs-mcp/mydocs-mcp/internal/parser"
	"github.com/mydocs-mcp/mydocs-mcp/internal/rpc"
	"github.com/mydocs-mcp/mydocs-mcp/internal/search"
	"github.com/mydocs-mcp/mydocs-mcp/internal/store"
	"github.com/mydocs-mcp/mydocs-mcp/internal/tools"
	"github.com/mydocs-mcp/mydocs-mcp/internal/watcher"
)

// CLI defines the command-line interface, generalizing the teacher's
// kong-based cmd/hector/main.go CLI struct from an agent server to this
// document-index server.
type CLI struct {
	Serve    ServeCmd    `cmd:"" help:"Start the MCP server on stdio."`
	Validate ValidateCmd `cmd:"" help:"Validate configuration without starting the server."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`

	Transport    string `help:"Transport (only stdio is supported)."`
	LogLevel     string `help:"Log level (debug, info, warn, error)."`
	LogFile      string `help:"Log file path (empty = stderr)."`
	DatabaseURL  string `help:"SQLite database file path."`
	DocumentRoot string `help:"Root directory to watch and serve documents from." type:"path"`
	Debug        bool   `help:"Enable debug mode (sets the log level to debug)."`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("mydocsmcp version %s\n", version)
	return nil
}

// ValidateCmd checks configuration and exits without serving.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	cfg, err := buildConfig(cli)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	fmt.Println("configuration OK")
	return nil
}

// ServeCmd starts the MCP server over stdio.
type ServeCmd struct{}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := buildConfig(cli)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	output := os.Stderr
	if cfg.LogFile != "" {
		f, cleanup, err := logging.OpenLogFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer cleanup()
		output = f
	}
	logging.Init(level, output, "text")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		cancel()
	}()

	st, err := store.Open(cfg.DatabaseURL, cfg.MaxConnections)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	ttl := cfg.SearchCacheTTL
	if !cfg.EnableSearchCaching {
		ttl = 0
	}
	engine := search.NewEngine(st, ttl)
	parsers := parser.NewRegistry()
	service := tools.NewService(st, engine, parsers, cfg.MaxDocumentSize, cfg.RequestTimeout, cfg.SupportedExtensions)

	var w *watcher.Watcher
	if cfg.DocumentRoot != "" {
		wcfg := watcher.DefaultConfig()
		wcfg.Dirs = []string{cfg.DocumentRoot}
		wcfg.Recursive = cfg.RecursiveWatch
		wcfg.Extensions = cfg.WatchExtensions
		wcfg.MaxFileSizeMB = cfg.MaxFileSizeMB
		wcfg.DebounceMS = cfg.DebounceDelayMS
		wcfg.BatchMS = cfg.BatchDelayMS
		wcfg.CheckpointPath = filepath.Join(cfg.DocumentRoot, ".mydocs-mcp", "index_state.json")
		if cfg.BatchProcessing {
			wcfg.Mode = watcher.ModeBatch
		}

		w = watcher.New(wcfg, makeDispatcher(ctx, service, st))
		if err := w.Start(ctx); err != nil {
			slog.Warn("watcher disabled", "error", err)
			w = nil
		} else {
			defer w.Stop(5 * time.Second)
		}
	}

	handler := rpc.NewHandler(service, "mydocsmcp", buildVersion())
	server := rpc.NewServer(os.Stdin, os.Stdout, handler)

	slog.Info("mydocsmcp serving on stdio", "document_root", cfg.DocumentRoot, "database", cfg.DatabaseURL)
	return server.Serve(ctx)
}

// makeDispatcher adapts watcher events into store/index operations,
// generalizing the teacher's watchFileEvents → handleFileEvent →
// processUpdates pipeline into this server's dispatch mapping (spec.md
// §4.3): created/modified ingest or reindex in place; deleted removes the
// document by path; moved rewrites the path column and reindexes when the
// old path is known, otherwise falls back to treating it as created.
func makeDispatcher(ctx context.Context, service *tools.Service, st *store.Store) watcher.Dispatcher {
	return func(ev watcher.Event) error {
		switch ev.Type {
		case watcher.EventCreated, watcher.EventModified:
			_, err := service.IndexDocument(ctx, &tools.IndexDocumentArgs{FilePath: ev.Path, ForceReindex: true})
			return err
		case watcher.EventDeleted:
			doc, err := st.GetByPath(ctx, ev.Path)
			if err != nil {
				return err
			}
			if doc == nil {
				return nil
			}
			return st.DeleteDocument(ctx, doc.ID)
		case watcher.EventMoved:
			if ev.OldPath == "" {
				_, err := service.IndexDocument(ctx, &tools.IndexDocumentArgs{FilePath: ev.Path, ForceReindex: true})
				return err
			}
			if err := st.RenamePath(ctx, ev.OldPath, ev.Path); err != nil {
				if apperrors.KindOf(err) == apperrors.KindNotFound {
					_, err := service.IndexDocument(ctx, &tools.IndexDocumentArgs{FilePath: ev.Path, ForceReindex: true})
					return err
				}
				return err
			}
			_, err := service.IndexDocument(ctx, &tools.IndexDocumentArgs{FilePath: ev.Path, ForceReindex: true})
			return err
		default:
			return nil
		}
	}
}

func buildConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cli.Transport != "" {
		cfg.Transport = cli.Transport
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.LogFile = cli.LogFile
	}
	if cli.DatabaseURL != "" {
		cfg.DatabaseURL = cli.DatabaseURL
	}
	if cli.DocumentRoot != "" {
		abs, err := filepath.Abs(cli.DocumentRoot)
		if err == nil {
			cfg.DocumentRoot = abs
		} else {
			cfg.DocumentRoot = cli.DocumentRoot
		}
	}
	if cli.Debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mydocsmcp"),
		kong.Description("MCP server exposing markdown/text document indexing and keyword search."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
