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

package sql

import (
	"database/sql"
	"fmt"

	"github.com/paulmach/orb"
)

// tableCursor walks the rows of one LIMIT/OFFSET query, caching the
// current row's columns by name so repeated typed accessors within the
// same row don't re-scan.
type tableCursor struct {
	table *Table
	rows  *sql.Rows
	row   int
	vals  map[string]any
}

func (c *tableCursor) Next() bool {
	if !c.rows.Next() {
		c.rows.Close()
		return false
	}
	c.row++
	dest := make([]any, len(c.table.names))
	ptrs := make([]any, len(dest))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return false
	}
	c.vals = make(map[string]any, len(dest))
	for i, name := range c.table.names {
		c.vals[name] = dest[i]
	}
	return true
}

func (c *tableCursor) Row() int {
	return c.row
}

func (c *tableCursor) Int64(name string) (int64, error) {
	v, ok := c.vals[name].(int64)
	if !ok {
		return 0, fmt.Errorf("sql: column %q is not an int64 in this row", name)
	}
	return v, nil
}

func (c *tableCursor) Float64(name string) (float64, error) {
	switch v := c.vals[name].(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("sql: column %q is not a float64 in this row", name)
	}
}

func (c *tableCursor) String(name string) (string, error) {
	v, ok := c.vals[name].(string)
	if !ok {
		return "", fmt.Errorf("sql: column %q is not a string in this row", name)
	}
	return v, nil
}

func (c *tableCursor) Bool(name string) (bool, error) {
	switch v := c.vals[name].(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("sql: column %q is not a bool in this row", name)
	}
}

func (c *tableCursor) Point(name string) (orb.Point, error) {
	return orb.Point{}, fmt.Errorf("sql: column %q: point columns are not supported by the sqlite adapter", name)
}
