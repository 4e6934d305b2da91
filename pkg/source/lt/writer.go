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

	"github.com/klauspost/compress/zstd"
)

// Writer accumulates fixed-width columns in memory and serialises them
// to a single trace file on Close.
type Writer struct {
	path       string
	height     int64
	sized      bool
	compress   bool
	names      []string
	kinds      []columnKind
	int64s     map[string][]int64
	float64s   map[string][]float64
	bools      map[string][]bool
}

// NewWriter returns a Writer for a new trace file at path; the file itself
// is created by Close. When compress is true, every column body is
// zstd-compressed before being written.
func NewWriter(path string, compress bool) *Writer {
	return &Writer{
		path:     path,
		compress: compress,
		int64s:   make(map[string][]int64),
		float64s: make(map[string][]float64),
		bools:    make(map[string][]bool),
	}
}

func (w *Writer) checkHeight(n int) error {
	if !w.sized {
		w.height = int64(n)
		w.sized = true
		return nil
	}
	if int64(n) != w.height {
		return fmt.Errorf("column has %d rows, file height is %d", n, w.height)
	}
	return nil
}

// WriteInt64 adds a fixed-width int64 column.
func (w *Writer) WriteInt64(name string, values []int64) error {
	if err := w.checkHeight(len(values)); err != nil {
		return err
	}
	w.names = append(w.names, name)
	w.kinds = append(w.kinds, kindInt64)
	w.int64s[name] = values
	return nil
}

// WriteFloat64 adds a fixed-width float64 column.
func (w *Writer) WriteFloat64(name string, values []float64) error {
	if err := w.checkHeight(len(values)); err != nil {
		return err
	}
	w.names = append(w.names, name)
	w.kinds = append(w.kinds, kindFloat64)
	w.float64s[name] = values
	return nil
}

// WriteBool adds a fixed-width bool column.
func (w *Writer) WriteBool(name string, values []bool) error {
	if err := w.checkHeight(len(values)); err != nil {
		return err
	}
	w.names = append(w.names, name)
	w.kinds = append(w.kinds, kindBool)
	w.bools[name] = values
	return nil
}

// Close serialises every accumulated column to disk and closes the file.
func (w *Writer) Close() error {
	f, err := os.Create(w.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(magic); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, version); err != nil {
		return err
	}

	bodies := make([][]byte, len(w.names))
	headers := make([]columnHeader, len(w.names))
	var offset int64
	for i, name := range w.names {
		raw, err := w.encodeColumn(name, w.kinds[i])
		if err != nil {
			return err
		}
		body := raw
		if w.compress {
			body, err = compress(raw)
			if err != nil {
				return err
			}
		}
		bodies[i] = body
		headers[i] = columnHeader{Name: name, Kind: w.kinds[i], Compressed: w.compress, Offset: offset, Length: int64(len(body))}
		offset += int64(len(body))
	}

	hdr := fileHeader{Version: version, Height: w.height, Columns: headers}
	var hdrBuf bytes.Buffer
	if err := gob.NewEncoder(&hdrBuf).Encode(&hdr); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, int64(hdrBuf.Len())); err != nil {
		return err
	}
	if _, err := f.Write(hdrBuf.Bytes()); err != nil {
		return err
	}
	for _, body := range bodies {
		if _, err := f.Write(body); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) encodeColumn(name string, kind columnKind) ([]byte, error) {
	var buf bytes.Buffer
	switch kind {
	case kindInt64:
		if err := binary.Write(&buf, binary.LittleEndian, w.int64s[name]); err != nil {
			return nil, err
		}
	case kindFloat64:
		if err := binary.Write(&buf, binary.LittleEndian, w.float64s[name]); err != nil {
			return nil, err
		}
	case kindBool:
		bits := make([]byte, len(w.bools[name]))
		for i, b := range w.bools[name] {
			if b {
				bits[i] = 1
			}
		}
		if _, err := buf.Write(bits); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported column kind for trace file: %v", kind)
	}
	return buf.Bytes(), nil
}

func compress(raw []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

func decompress(body []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(body, nil)
}

var _ io.Closer = (*Writer)(nil)
