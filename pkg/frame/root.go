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

package frame

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/branchframe/branchframe/pkg/source"
)

type passState int

const (
	stateBooking passState = iota
	stateRunning
	stateReady
)

// cacheEntry is one node's memoised outcome for a single row within a
// single slot.
type cacheEntry struct {
	row   int
	value any
	err   error
	valid bool
}

type slotState struct {
	cache []cacheEntry
}

// actionBinding ties a booked action to the node it gates on and to the
// readiness flag every result handle issued for it shares.
type actionBinding struct {
	parent *node
	act    action
	ready  bool
	result any
	err    error
}

// Root owns a source, the pipeline graph booked against it, and the
// run-once state machine that drives a single shared pass. It is the
// analogue of an RDataFrame: a fresh Root wraps one source, and every
// Frame handle returned by Define/Filter/action bookings threads back
// through it.
type Root struct {
	mu sync.Mutex

	src         source.Source
	defaultCols []string

	nodes        []*node
	visible      map[string]*node
	namedFilters []*node
	actions      []*actionBinding

	state passState
	slots []slotState

	log *logrus.Entry
}

// NewRoot constructs a fresh pipeline graph rooted at src. defaultCols, if
// given, backs the arity-based default-input-list fallback used by
// Define/Filter bookings that omit an explicit input list.
func NewRoot(src source.Source, defaultCols ...string) Frame {
	root := &Root{
		src:         src,
		defaultCols: defaultCols,
		visible:     make(map[string]*node),
		log:         logrus.WithField("component", "frame"),
	}
	return Frame{root: root, node: nil}
}

// Frame is a handle to one point in the pipeline graph: either the source
// itself (node == nil) or a previously booked derived-column or filter
// node. Define/Filter bookings return a new Frame whose node is the newly
// booked one; action bookings consume a Frame and return a result handle.
type Frame struct {
	root *Root
	node *node
}

func (root *Root) checkBookable() error {
	root.mu.Lock()
	defer root.mu.Unlock()
	if root.state == stateReady {
		return ErrRootFrozen
	}
	return nil
}

func (root *Root) nextID() int {
	return len(root.nodes)
}

// resolveInputs implements the default-column-list fallback: if explicit
// is non-empty it is used verbatim (subject to an arity check); otherwise
// the first arity entries of the root's default column list are used.
func resolveInputs(explicit []string, arity int, defaults []string) ([]string, error) {
	if len(explicit) > 0 {
		if len(explicit) != arity {
			return nil, errArityMismatch(arity, len(explicit))
		}
		return explicit, nil
	}
	if len(defaults) < arity {
		return nil, errArityMismatch(arity, len(defaults))
	}
	return defaults[:arity], nil
}

// addDefine books a new derived-column node as a child of parent.
func (root *Root) addDefine(parent *node, name string, inputs []string, compute computeFunc) (*node, error) {
	if err := root.checkBookable(); err != nil {
		return nil, err
	}
	if _, clash := root.src.ColumnKind(name); clash {
		return nil, errDuplicateName(name)
	}
	if _, clash := root.visible[name]; clash {
		return nil, errDuplicateName(name)
	}
	n := &node{root: root, id: root.nextID(), parent: parent, kind: kindDefine, colName: name, inputs: inputs, compute: compute}
	root.nodes = append(root.nodes, n)
	root.visible[name] = n
	return n, nil
}

// addFilter books a new filter node as a child of parent, optionally
// named for cutflow reporting.
func (root *Root) addFilter(parent *node, name string, inputs []string, compute computeFunc) (*node, error) {
	if err := root.checkBookable(); err != nil {
		return nil, err
	}
	n := &node{root: root, id: root.nextID(), parent: parent, kind: kindFilter, filterName: name, inputs: inputs, compute: compute}
	root.nodes = append(root.nodes, n)
	if name != "" {
		root.namedFilters = append(root.namedFilters, n)
	}
	return n, nil
}

func (root *Root) bookAction(parent *node, act action) (*actionBinding, error) {
	if err := root.checkBookable(); err != nil {
		return nil, err
	}
	b := &actionBinding{parent: parent, act: act}
	root.actions = append(root.actions, b)
	return b, nil
}

// Report triggers a pass if none has completed yet, then returns, in
// booking order, one line per named filter: its name, total accepted
// rows, total observed rows, and the accept percentage.
func (root *Root) Report() string {
	var sb strings.Builder
	root.ReportTo(&sb)
	return sb.String()
}

// ReportTo is Report, writing to an arbitrary writer instead of building a
// string. If the pass fails, it writes a single "report unavailable" line
// carrying the error instead of the per-filter lines.
func (root *Root) ReportTo(w io.Writer) {
	if err := root.ensureRun(); err != nil {
		fmt.Fprintf(w, "report unavailable: %v\n", err)
		return
	}
	for _, n := range root.namedFilters {
		pass, all := filterTotals(n)
		pct := 0.0
		if all > 0 {
			pct = float64(pass) / float64(all) * 100
		}
		fmt.Fprintf(w, "%s: pass=%d all=%d -- %.3f %%\n", n.filterName, pass, all, pct)
	}
}

func filterTotals(n *node) (pass, all int64) {
	for _, v := range n.accept {
		pass += v
	}
	for _, v := range n.reject {
		all += v
	}
	return pass, pass + all
}

// CutflowRow is one named filter's accept/reject totals for a completed
// pass, in booking order.
type CutflowRow struct {
	Name    string
	Pass    int64
	All     int64
	Percent float64
}

// ReportRows triggers a pass if none has completed yet and returns the
// same totals Report prints, as structured data for callers that want to
// render their own presentation (e.g. a colourised table) instead of
// parsing Report's plain text.
func (root *Root) ReportRows() ([]CutflowRow, error) {
	if err := root.ensureRun(); err != nil {
		return nil, err
	}
	rows := make([]CutflowRow, 0, len(root.namedFilters))
	for _, n := range root.namedFilters {
		pass, all := filterTotals(n)
		pct := 0.0
		if all > 0 {
			pct = float64(pass) / float64(all) * 100
		}
		rows = append(rows, CutflowRow{Name: n.filterName, Pass: pass, All: all, Percent: pct})
	}
	return rows, nil
}

// Report, ReportTo, and ReportRows on Frame forward to the underlying Root
// so callers holding the Frame handle NewRoot returns can report directly.
func (f Frame) Report() string {
	return f.root.Report()
}

func (f Frame) ReportTo(w io.Writer) {
	f.root.ReportTo(w)
}

func (f Frame) ReportRows() ([]CutflowRow, error) {
	return f.root.ReportRows()
}

// sourceValue boxes a persistent column's value for the current row.
func sourceValue(cur source.Cursor, kind source.ColumnKind, name string) (any, error) {
	return source.Any(cur, kind, name)
}
