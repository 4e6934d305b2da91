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
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/branchframe/branchframe/pkg/source"
)

// File is a trace file opened for reading, implementing source.Source by
// decoding every column's body into memory once, when it is opened.
type File struct {
	path   string
	header fileHeader
	byName map[string]columnHeader

	int64s   map[string][]int64
	float64s map[string][]float64
	bools    map[string][]bool
}

// Open reads a trace file's header from path and then decodes all of its
// column bodies into memory.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, len(magic))
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, err
	}
	if string(buf) != magic {
		return nil, fmt.Errorf("lt: not a trace file: %s", path)
	}
	var ver uint32
	if err := binary.Read(f, binary.LittleEndian, &ver); err != nil {
		return nil, err
	}
	if ver != version {
		return nil, fmt.Errorf("lt: unsupported trace file version %d", ver)
	}
	var hdrLen int64
	if err := binary.Read(f, binary.LittleEndian, &hdrLen); err != nil {
		return nil, err
	}
	hdrBuf := make([]byte, hdrLen)
	if _, err := io.ReadFull(f, hdrBuf); err != nil {
		return nil, err
	}
	var hdr fileHeader
	if err := gob.NewDecoder(bytes.NewReader(hdrBuf)).Decode(&hdr); err != nil {
		return nil, err
	}

	byName := make(map[string]columnHeader, len(hdr.Columns))
	for _, c := range hdr.Columns {
		byName[c.Name] = c
	}

	file := &File{
		path:     path,
		header:   hdr,
		byName:   byName,
		int64s:   make(map[string][]int64),
		float64s: make(map[string][]float64),
		bools:    make(map[string][]bool),
	}
	if err := file.loadAll(); err != nil {
		return nil, err
	}
	return file, nil
}

// loadAll decodes every column body into memory; trace files in this
// engine's size range are expected to fit comfortably, matching the
// donor's own in-memory trace representation.
func (file *File) loadAll() error {
	f, err := os.Open(file.path)
	if err != nil {
		return err
	}
	defer f.Close()

	base := int64(len(magic)) + 4 + 8
	var hdrLen int64
	if _, err := f.Seek(int64(len(magic))+4, 0); err != nil {
		return err
	}
	if err := binary.Read(f, binary.LittleEndian, &hdrLen); err != nil {
		return err
	}
	base += hdrLen

	for _, c := range file.header.Columns {
		if _, err := f.Seek(base+c.Offset, 0); err != nil {
			return err
		}
		body := make([]byte, c.Length)
		if _, err := io.ReadFull(f, body); err != nil {
			return err
		}
		if c.Compressed {
			body, err = decompress(body)
			if err != nil {
				return err
			}
		}
		if err := file.decodeColumn(c, body); err != nil {
			return err
		}
	}
	return nil
}

func (file *File) decodeColumn(c columnHeader, body []byte) error {
	r := bytes.NewReader(body)
	switch c.Kind {
	case kindInt64:
		vals := make([]int64, file.header.Height)
		if err := binary.Read(r, binary.LittleEndian, vals); err != nil {
			return err
		}
		file.int64s[c.Name] = vals
	case kindFloat64:
		vals := make([]float64, file.header.Height)
		if err := binary.Read(r, binary.LittleEndian, vals); err != nil {
			return err
		}
		file.float64s[c.Name] = vals
	case kindBool:
		bits := make([]byte, file.header.Height)
		if _, err := io.ReadFull(r, bits); err != nil {
			return err
		}
		vals := make([]bool, len(bits))
		for i, b := range bits {
			vals[i] = b != 0
		}
		file.bools[c.Name] = vals
	default:
		return fmt.Errorf("lt: unsupported column kind %v", c.Kind)
	}
	return nil
}

// ColumnKind implements source.Source.
func (file *File) ColumnKind(name string) (source.ColumnKind, bool) {
	c, ok := file.byName[name]
	return c.Kind, ok
}

// Columns implements source.Source.
func (file *File) Columns() []string {
	names := make([]string, len(file.header.Columns))
	for i, c := range file.header.Columns {
		names[i] = c.Name
	}
	return names
}

// Height implements source.Source.
func (file *File) Height() int {
	return int(file.header.Height)
}

// Cursor implements source.Source.
func (file *File) Cursor() (source.Cursor, error) {
	return file.Range(0, file.Height())
}

// Partitions implements source.Source.
func (file *File) Partitions(n int) ([]source.Cursor, error) {
	if n <= 0 {
		return nil, fmt.Errorf("lt: partition count must be positive, got %d", n)
	}
	height := file.Height()
	cursors := make([]source.Cursor, n)
	base := height / n
	rem := height % n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		cur, err := file.Range(start, start+size)
		if err != nil {
			return nil, err
		}
		cursors[i] = cur
		start += size
	}
	return cursors, nil
}

// Range returns a cursor over the half-open row interval [lo, hi).
func (file *File) Range(lo, hi int) (source.Cursor, error) {
	if lo < 0 || hi > file.Height() || lo > hi {
		return nil, fmt.Errorf("lt: invalid range [%d,%d) against height %d", lo, hi, file.Height())
	}
	return &fileCursor{file: file, lo: lo, hi: hi, row: lo - 1}, nil
}
