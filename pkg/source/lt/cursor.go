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

package lt

import (
	"fmt"

	"github.com/paulmach/orb"
)

// fileCursor ranges over a contiguous row interval of an already
// in-memory-decoded File; no further disk I/O happens once Open has
// returned.
type fileCursor struct {
	file *File
	lo   int
	hi   int
	row  int
}

func (c *fileCursor) Next() bool {
	c.row++
	return c.row < c.hi
}

func (c *fileCursor) Row() int {
	return c.row
}

func (c *fileCursor) Int64(name string) (int64, error) {
	vals, ok := c.file.int64s[name]
	if !ok {
		return 0, fmt.Errorf("lt: column %q is not an int64 column", name)
	}
	return vals[c.row], nil
}

func (c *fileCursor) Float64(name string) (float64, error) {
	vals, ok := c.file.float64s[name]
	if !ok {
		return 0, fmt.Errorf("lt: column %q is not a float64 column", name)
	}
	return vals[c.row], nil
}

func (c *fileCursor) String(name string) (string, error) {
	return "", fmt.Errorf("lt: column %q: string columns are not supported by trace files", name)
}

func (c *fileCursor) Bool(name string) (bool, error) {
	vals, ok := c.file.bools[name]
	if !ok {
		return false, fmt.Errorf("lt: column %q is not a bool column", name)
	}
	return vals[c.row], nil
}

func (c *fileCursor) Point(name string) (orb.Point, error) {
	return orb.Point{}, fmt.Errorf("lt: column %q: point columns are not supported by trace files", name)
}
