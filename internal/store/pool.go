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

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Pool manages one pooled *sql.DB per backing file. SQLite tolerates only
// one writer at a time, so every pool this process ever opens is pinned to
// a single connection; a configurable ceiling governs how many logical
// callers may be in flight against it concurrently (see Store.sem).
type Pool struct {
	mu    sync.Mutex
	dbs   map[string]*sql.DB
}

// NewPool creates an empty connection pool manager.
func NewPool() *Pool {
	return &Pool{dbs: make(map[string]*sql.DB)}
}

// Get returns the pooled *sql.DB for databaseURL, opening and tuning it on
// first use.
func (p *Pool) Get(databaseURL string) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if db, ok := p.dbs[databaseURL]; ok {
		return db, nil
	}

	db, err := p.open(databaseURL)
	if err != nil {
		return nil, err
	}
	p.dbs[databaseURL] = db
	return db, nil
}

func (p *Pool) open(databaseURL string) (*sql.DB, error) {
	dsn := databaseURL + "?_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection serializes
	// all access through this process and avoids "database is locked"
	// errors under concurrent tool calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA cache_size=-65536", // ≥64MB shared reader cache
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			slog.Warn("pragma failed", "pragma", pragma, "error", err)
		}
	}

	return db, nil
}

// Close closes every pooled connection.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for dsn, db := range p.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", dsn, err)
		}
	}
	p.dbs = make(map[string]*sql.DB)
	return firstErr
}
