// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package sql adapts a database/sql table, queried through the pure-Go
// modernc.org/sqlite driver, into a source.Source. Partitioning is done
// with LIMIT/OFFSET rather than true parallel scans, since a single
// sqlite connection cannot usefully serve concurrent readers; it still
// satisfies the Source contract's disjoint-contiguous-range requirement.
package sql

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/branchframe/branchframe/pkg/source"
)

// Table is a Source backed by one table (or view) in a sqlite database,
// with a fixed column-to-kind mapping supplied by the caller since
// database/sql exposes only driver-level type names.
type Table struct {
	db      *sql.DB
	table   string
	names   []string
	kinds   map[string]source.ColumnKind
	height  int
}

// ColumnSpec names one column and its kind, in the order it should be
// read from the table.
type ColumnSpec struct {
	Name string
	Kind source.ColumnKind
}

// Open opens a sqlite database at path (a plain file path, or
// ":memory:") and binds table with the given column specs.
func Open(path, table string, columns []ColumnSpec) (*Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	t := &Table{db: db, table: table, kinds: make(map[string]source.ColumnKind, len(columns))}
	for _, c := range columns {
		t.names = append(t.names, c.Name)
		t.kinds[c.Name] = c.Kind
	}
	row := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table)))
	if err := row.Scan(&t.height); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

// Close releases the underlying database connection.
func (t *Table) Close() error {
	return t.db.Close()
}

// ColumnKind implements source.Source.
func (t *Table) ColumnKind(name string) (source.ColumnKind, bool) {
	k, ok := t.kinds[name]
	return k, ok
}

// Columns implements source.Source.
func (t *Table) Columns() []string {
	return t.names
}

// Height implements source.Source.
func (t *Table) Height() int {
	return t.height
}

// Cursor implements source.Source.
func (t *Table) Cursor() (source.Cursor, error) {
	return t.Range(0, t.height)
}

// Partitions implements source.Source, issuing one LIMIT/OFFSET query
// per partition rather than sharing a single scan.
func (t *Table) Partitions(n int) ([]source.Cursor, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sql: partition count must be positive, got %d", n)
	}
	cursors := make([]source.Cursor, n)
	base := t.height / n
	rem := t.height % n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		cur, err := t.Range(start, start+size)
		if err != nil {
			return nil, err
		}
		cursors[i] = cur
		start += size
	}
	return cursors, nil
}

// Range returns a cursor over the half-open row interval [lo, hi),
// ordered by rowid.
func (t *Table) Range(lo, hi int) (source.Cursor, error) {
	if lo < 0 || hi > t.height || lo > hi {
		return nil, fmt.Errorf("sql: invalid range [%d,%d) against height %d", lo, hi, t.height)
	}
	limit := hi - lo
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid LIMIT ? OFFSET ?", columnList(t.names), quoteIdent(t.table))
	rows, err := t.db.Query(query, limit, lo)
	if err != nil {
		return nil, err
	}
	return &tableCursor{table: t, rows: rows, row: lo - 1}, nil
}

func columnList(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += quoteIdent(n)
	}
	return out
}

func quoteIdent(ident string) string {
	return `"` + ident + `"`
}
